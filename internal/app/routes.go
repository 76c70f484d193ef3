package app

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/yatrapay/yatrapay/internal/handler"
	"github.com/yatrapay/yatrapay/internal/middleware"
)

func (app *Application) routes() http.Handler {
	mux := http.NewServeMux()

	middlewareRepo := middleware.New(app.ErrorHandler, app.Logger, app.DB.User(), &app.Config)

	healthHandler := handler.NewHealthCheckHandler(app.ErrorHandler)

	authHandler := handler.NewAuthHandler(&handler.AuthHandler{
		DB:           app.DB,
		UserRepo:     app.DB.User(),
		WalletRepo:   app.DB.Wallet(),
		ActivityRepo: app.DB.Activity(),
		Config:       &app.Config,
		ErrHandler:   app.ErrorHandler,
		Helper:       app.Helper,
		Mailer:       app.Mailer,
	})

	userHandler := handler.NewUserHandler(&handler.UserHandler{
		ErrHandler: app.ErrorHandler,
	})

	kycHandler := handler.NewKycHandler(&handler.KycHandler{
		KycRepo:      app.DB.Kyc(),
		ActivityRepo: app.DB.Activity(),
		Uploader:     app.FileUploader,
		Stream:       app.Kafka,
		ErrHandler:   app.ErrorHandler,
		Helper:       app.Helper,
	})

	walletHandler := handler.NewWalletHandler(&handler.WalletHandler{
		WalletRepo:      app.DB.Wallet(),
		TransactionRepo: app.DB.Transaction(),
		ActivityRepo:    app.DB.Activity(),
		Cache:           app.Cache,
		Config:          &app.Config,
		ErrHandler:      app.ErrorHandler,
		Helper:          app.Helper,
	})

	transactionHandler := handler.NewTransactionHandler(&handler.TransactionHandler{
		TransactionRepo: app.DB.Transaction(),
		ErrHandler:      app.ErrorHandler,
	})

	mux.HandleFunc("GET /status", healthHandler.HandleHealthCheck)

	mux.HandleFunc("POST /auth/register", authHandler.HandleAuthRegister)
	mux.HandleFunc("POST /auth/login", authHandler.HandleAuthLogin)

	mux.Handle("GET /users/me", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(userHandler.HandleUserProfile)))

	mux.Handle("POST /kyc", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(kycHandler.HandleSubmitKYC)))
	mux.Handle("GET /kyc/me", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(kycHandler.HandleMyKYC)))
	mux.Handle("PATCH /kyc/{id}/decision", middlewareRepo.RequireAdminUser(http.HandlerFunc(kycHandler.HandleReviewKYC)))

	mux.Handle("GET /wallets/me", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(walletHandler.HandleWalletDetails)))
	mux.Handle("POST /wallets/load", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(walletHandler.HandleLoadMoney)))
	mux.Handle("POST /wallets/expense", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(walletHandler.HandleCreateExpense)))

	mux.Handle("GET /transactions", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(transactionHandler.HandleTransactionHistory)))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: app.Config.Cors.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	return middlewareRepo.LogAccess(middlewareRepo.RecoverPanic(corsHandler.Handler(middlewareRepo.Authenticate(mux))))
}
