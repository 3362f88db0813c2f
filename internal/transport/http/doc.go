// Package http implements the HTTP handlers of the floorcheck dashboard.
// Handlers stay thin: they parse and validate the request, call a service
// and render either a JSON view model or an RFC 7807 problem through the
// shared ErrorHandler.
//
// Routes, all mounted by the application router:
//
//	POST   /api/auth/login             open a session (rate limited per IP)
//	POST   /api/auth/logout            close the session
//	GET    /api/auth/me                signed-in user
//	GET    /api/dashboard/dates        available dates
//	GET    /api/dashboard/summary      full-history KPIs
//	GET    /api/dashboard/floors       floor comparison between two dates
//	GET    /api/dashboard/positions    top positions on a date
//	GET    /api/dashboard/observations observation comparison between two dates
//	GET    /api/dashboard/table        paginated raw rows
//	GET    /api/dashboard/export.csv   full table as CSV
//	GET    /api/dashboard/export.xlsx  full table as XLSX
//	GET    /api/alerts/recipients      distribution list (admin)
//	POST   /api/alerts/recipients      append an address (admin)
//	DELETE /api/alerts/recipients      reset to the default (admin)
//	POST   /api/alerts/send            email the critical floor alert
//	GET    /api/health[/ready|/live|/detailed]
//	GET    /metrics                    Prometheus exposition
package http
