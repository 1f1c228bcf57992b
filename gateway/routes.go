package gateway

// Backend API routes, relative to the configured base URL.
const (
	RouteAuthGenerateURL = "/auth/generate-url"
	RouteAuthCallback    = "/auth/callback"
	RouteAuthProfile     = "/auth/profile"
	RouteAuthRefresh     = "/auth/refresh"
	RouteAuthSessions    = "/auth/sessions"
	RouteAuthSwitch      = "/auth/switch"
	RouteAuthLogout      = "/auth/logout"

	RouteStoreDaily   = "/store/daily"
	RouteStoreHistory = "/store/history"

	RouteGameDataSkins   = "/game-data/skins"
	RouteGameDataBundles = "/game-data/bundles"
	RouteGameDataHealth  = "/game-data/health"
)
