/*
Package tariff provides the TPL FVG fare table: data model, decoding, loading
and caching.

A fare table is an ordered list of lines. Each line carries its stops and two
square matrices indexed by stop position: prices and ticket codes. An optional
list of fare updates maps stop names to ticket codes and is used as a fallback
when the codes matrix has no entry.

# Document format

The JSON document is either a bare array of lines (the historical
database.json layout) or an envelope:

	{
	  "version": "1.6.0",
	  "updated_at": "2025-11-17",
	  "lines": [
	    {
	      "nome": "Linea 400 Udine-Grado",
	      "fermate": ["Udine", "Palmanova", "Grado"],
	      "prezzi": [[null, 2.5, 4.5], [2.5, null, 3.5], [4.5, 3.5, null]],
	      "codici": [["", "E1", "E4"], ["E1", "", "E2"], ["E4", "E2", ""]]
	    }
	  ],
	  "updates": [
	    {"partenza": "Udine", "arrivo": "Grado", "codice_biglietto": "E4"}
	  ]
	}

Decoding is lenient: fields of the wrong type are treated as missing instead
of failing the whole document, so a partially malformed table still loads and
the pricing package degrades per selection.

# Absent vs empty

A nil PriceMatrix or CodeMatrix means the line has no such matrix. A present
but empty matrix is a non-nil, zero-length value. The pricing rules treat the
two differently, so code building tables by hand must keep the distinction.

# Loading

Registry owns the current table. Load fetches it once from a Source, shares a
single in-flight fetch between concurrent callers, falls back to the gob cache
when the source is unavailable and notifies subscribers when new data is in
place. The table itself is never mutated; reloads swap it wholesale.
*/
package tariff
