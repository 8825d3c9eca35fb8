// Package server exposes fare lookups, stop ranking, service alerts and saved
// selections over HTTP using gin.
//
// Routes:
//
//	GET    /api/health
//	GET    /api/lines
//	GET    /api/lines/:line/stops?lat=&lng=
//	GET    /api/lines/:line/nearest?lat=&lng=
//	GET    /api/lines/:line/alerts
//	GET    /api/price?line=&from=&to=&format=json|xml|text
//	POST   /api/selection
//	GET    /api/selection/:client
//	PUT    /api/selection/:client
//	DELETE /api/selection/:client
//	POST   /api/reload
//	GET    /metrics
//
// /api/price always answers 200: an unusable selection is a quote with no
// price, no code and valid=false.
package server
