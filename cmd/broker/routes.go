package main

import (
	getadmin "broker-app/http-server/admin/get"
	saveadmin "broker-app/http-server/admin/save"
	updateadmin "broker-app/http-server/admin/update"
	"broker-app/http-server/auth/login"
	getbroker "broker-app/http-server/broker/get"
	savebroker "broker-app/http-server/broker/save"
	generate_excel "broker-app/http-server/generate-report/generate-excel"
	getpo "broker-app/http-server/purchase-order/get"
	savepo "broker-app/http-server/purchase-order/save"
	recalculate_charges "broker-app/http-server/recalculate-charges"
	"broker-app/http-server/supplier-quotation/event"
	getsq "broker-app/http-server/supplier-quotation/get"
	savesq "broker-app/http-server/supplier-quotation/save"
	updatesq "broker-app/http-server/supplier-quotation/update"
	"broker-app/internal/config"
	"broker-app/internal/middleware/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"log/slog"
)

// справочники, которые правятся из админки
type masterData interface {
	getadmin.AdminMasterProvider
	saveadmin.MasterCreator
	updateadmin.MasterUpdater
}

func routes(cfg config.Config, log *slog.Logger, svc services) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Post("/api/auth/login", login.Login(log, svc.accounts))

	// мобильное API доступно только по api_key/api_secret
	router.Group(func(r chi.Router) {
		r.Use(auth.TokenAuth(log, svc.accounts))

		// Заявки поставщиков
		r.Route("/api/supplier-quotations", func(r chi.Router) {
			r.Get("/", getsq.GetSupplierQuotations(log, svc.quotations))
			r.Post("/", savesq.CreateSupplierQuotation(log, svc.quotations))
			r.Post("/calculate-charges", recalculate_charges.CalculateCharges(log, svc.quotations))
			r.Get("/{name}", getsq.GetSupplierQuotation(log, svc.quotations))
			r.Get("/{name}/party-lookup", getsq.GetPartyLookup(log, svc.quotations))
			// изменения полей формы: пересчёт фрахта и работ
			r.Post("/{name}/events", event.ApplyFormEvent(log, svc.quotations))
			r.Post("/{name}/purchase-order", savepo.CreatePurchaseOrder(log, svc.purchases))
		})

		// Заказы на закупку
		r.Get("/api/purchase-orders", getpo.GetPurchaseOrders(log, svc.purchases))
		r.Get("/api/purchase-orders/{name}", getpo.GetPurchaseOrder(log, svc.purchases))
		r.Post("/api/purchase-orders/{name}/submit", savepo.SubmitPurchaseOrder(log, svc.purchases))

		// Брокеры
		r.Get("/api/brokers", getbroker.GetBrokers(log, svc.brokers))
		r.Post("/api/brokers", savebroker.CreateBroker(log, svc.brokers))

		r.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, svc.report))
	})

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(log, cfg.AdminLogin, cfg.AdminPass))
	adminRouter.Put("/supplier-quotations/{name}/workflow", updatesq.UpdateWorkflowState(log, svc.quotations))

	adminRouter.Get("/item-prices", getadmin.GetItemPricesAdmin(log, svc.master))
	adminRouter.Put("/item-prices", updateadmin.UpdateItemPricesAdmin(log, svc.master))
	adminRouter.Post("/items", saveadmin.SaveItemAdmin(log, svc.master))
	adminRouter.Get("/parties", getadmin.GetPartiesAdmin(log, svc.master))
	adminRouter.Post("/parties", saveadmin.SavePartyAdmin(log, svc.master))
	adminRouter.Put("/parties", updateadmin.UpdatePartiesAdmin(log, svc.master))
	adminRouter.Post("/users", saveadmin.SaveUserAdmin(log, svc.accounts))

	router.Mount("/api/admin", adminRouter)

	return router
}
