package router

import "net/http"

type AuthRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type AccountRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type AdminRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, adminMiddleware func(http.Handler) http.Handler)
}

type TransferRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type HistoryRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type LoanRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

func New(
	authController AuthRouteRegistrar,
	accountController AccountRouteRegistrar,
	adminController AdminRouteRegistrar,
	transferController TransferRouteRegistrar,
	historyController HistoryRouteRegistrar,
	loanController LoanRouteRegistrar,
	authMiddleware func(http.Handler) http.Handler,
	adminMiddleware func(http.Handler) http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()

	if authController != nil {
		authController.RegisterRoutes(mux, nil)
	}
	if accountController != nil {
		accountController.RegisterRoutes(mux, authMiddleware)
	}
	if adminController != nil {
		adminController.RegisterRoutes(mux, adminMiddleware)
	}
	if transferController != nil {
		transferController.RegisterRoutes(mux, authMiddleware)
	}
	if historyController != nil {
		historyController.RegisterRoutes(mux, authMiddleware)
	}
	if loanController != nil {
		loanController.RegisterRoutes(mux, authMiddleware)
	}

	return mux
}
