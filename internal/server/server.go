package server

import (
	"log"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/loomworks/tradeledger/internal/posting"
	"github.com/loomworks/tradeledger/internal/state"
	"github.com/loomworks/tradeledger/internal/store"
)

type Server struct {
	disp   *state.Dispatcher
	engine *posting.Engine
	saver  *store.Saver
	router chi.Router
	addr   string
}

func New(disp *state.Dispatcher, engine *posting.Engine, saver *store.Saver, addr string) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	s := &Server{disp: disp, engine: engine, saver: saver, router: r, addr: addr}

	r.Route("/api/v1", func(r chi.Router) {
		// Chart of accounts
		r.Get("/accounts", s.listAccounts)
		r.Get("/accounts/{id}", s.getAccount)
		r.Get("/accounts/{id}/balance", s.getAccountBalance)
		r.Get("/accounts/{id}/entries", s.listAccountEntries)

		// Parties (customers, suppliers, agents, employees, internal accounts)
		r.Get("/parties", s.listParties)
		r.Get("/parties/{id}", s.getParty)
		r.Get("/parties/{id}/balance", s.getPartyBalance)
		r.Get("/parties/{id}/entries", s.listPartyEntries)
		r.Put("/parties/{id}", s.upsertParty)
		r.Delete("/parties/{id}", s.deleteParty)

		// Items and stock
		r.Get("/items", s.listItems)
		r.Post("/items", s.createItem)
		r.Delete("/items/{id}", s.deleteItem)
		r.Post("/productions", s.createProduction)

		// Sales invoices
		r.Post("/invoices", s.createInvoice)
		r.Get("/invoices", s.listInvoices)
		r.Get("/invoices/{id}", s.getInvoice)
		r.Post("/invoices/{id}/post", s.postInvoice)

		// Postings with no document of their own
		r.Post("/postings/vehicle-charge", s.postVehicleCharge)
		r.Post("/postings/salary", s.postSalaryPayment)
		r.Post("/postings/import", s.postBulkImport)

		// Vouchers and reports
		r.Get("/vouchers", s.listVouchers)
		r.Get("/vouchers/{id}", s.getVoucher)
		r.Get("/reports/trial-balance", s.trialBalance)
		r.Get("/reports/party-balances", s.partyBalances)
		r.Get("/reports/stock", s.stockOnHand)

		// Persistence status and counters
		r.Get("/status", s.getStatus)
		r.Get("/counters", s.getCounters)
	})

	return s
}

func (s *Server) ListenAndServe() error {
	log.Printf("tradeledger server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) Serve(ln net.Listener) error {
	log.Printf("tradeledger server listening on %s", ln.Addr())
	return http.Serve(ln, s.router)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
