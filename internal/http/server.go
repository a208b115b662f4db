package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/Maverick2506/Fintrack-backend/internal/advice"
	"github.com/Maverick2506/Fintrack-backend/internal/auth"
	"github.com/Maverick2506/Fintrack-backend/internal/clock"
	"github.com/Maverick2506/Fintrack-backend/internal/log"
	"github.com/Maverick2506/Fintrack-backend/internal/middleware/cors"
	"github.com/Maverick2506/Fintrack-backend/internal/middleware/ratelimit"
	"github.com/Maverick2506/Fintrack-backend/internal/middleware/security"
	"github.com/Maverick2506/Fintrack-backend/internal/middleware/trace"
	"github.com/Maverick2506/Fintrack-backend/internal/services"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// Pinger reports whether the ledger store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Expenses  *services.ExpenseService
	Accounts  *services.AccountService
	Payments  *services.PaymentService
	Reporter  *services.Reporter
	Recurring *services.RecurringProcessor
	Sweeper   *services.SettlementSweeper
	Advisor   *advice.Advisor
	Auth      *auth.Authenticator
	Store     Pinger
	Clock     clock.Clock
}

// Options configure the listener and the middleware stack.
type Options struct {
	Addr           string
	CORSOrigins    []string
	LoginRateLimit int // attempts per minute per client
	Logger         *log.Logger
}

type Server struct {
	http.Server
	deps     Deps
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(opts Options, deps Deps) *Server {
	if deps.Clock == nil {
		deps.Clock = clock.NewSystem(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		deps:     deps,
		logger:   logger,
		detector: security.NewDetector(),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.LoginRateLimit}),
	}

	api := http.NewServeMux()
	s.registerAPI(api)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("POST /api/auth/login",
		s.limiter.Middleware(s.detector.ExtractClientIP, s.tooManyRequests)(http.HandlerFunc(s.handleLogin)))
	mux.Handle("/api/", deps.Auth.Middleware(api))

	var handler http.Handler = mux
	handler = cors.Middleware(opts.CORSOrigins)(handler)
	handler = s.detector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.NewMiddleware(logger, s.detector.ExtractClientIP).Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// Advice calls wait on the model.
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}
	return s
}

func (s *Server) registerAPI(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/paycheques", s.handleListPaycheques)
	mux.HandleFunc("POST /api/paycheques", s.handleCreatePaycheque)
	mux.HandleFunc("DELETE /api/paycheques/{id}", s.handleDeletePaycheque)

	mux.HandleFunc("GET /api/expenses/monthly", s.handleMonthlyExpenses)
	mux.HandleFunc("GET /api/expenses/category", s.handleCategoryExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/debts", s.handleListDebts)
	mux.HandleFunc("POST /api/debts", s.handleCreateDebt)
	mux.HandleFunc("PUT /api/debts/{id}", s.handleUpdateDebt)
	mux.HandleFunc("DELETE /api/debts/{id}", s.handleDeleteDebt)
	mux.HandleFunc("POST /api/debts/{id}/pay", s.handlePayDebt)

	mux.HandleFunc("GET /api/savings-goals", s.handleListSavingsGoals)
	mux.HandleFunc("POST /api/savings-goals", s.handleCreateSavingsGoal)
	mux.HandleFunc("PUT /api/savings-goals/{id}", s.handleUpdateSavingsGoal)
	mux.HandleFunc("DELETE /api/savings-goals/{id}", s.handleDeleteSavingsGoal)
	mux.HandleFunc("POST /api/savings-goals/{id}/contribute", s.handleContribute)

	mux.HandleFunc("GET /api/credit-cards", s.handleListCreditCards)
	mux.HandleFunc("POST /api/credit-cards", s.handleCreateCreditCard)
	mux.HandleFunc("PUT /api/credit-cards/{id}", s.handleUpdateCreditCard)
	mux.HandleFunc("DELETE /api/credit-cards/{id}", s.handleDeleteCreditCard)
	mux.HandleFunc("POST /api/credit-cards/{id}/pay", s.handlePayCreditCard)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/spending-summary", s.handleSpendingSummary)
	mux.HandleFunc("GET /api/trends", s.handleTrends)

	mux.HandleFunc("POST /api/financial-advice", s.handleFinancialAdvice)
	mux.HandleFunc("POST /api/categorize-expense", s.handleCategorizeExpense)

	mux.HandleFunc("POST /api/trigger-recurring", s.handleTriggerRecurring)
	mux.HandleFunc("POST /api/trigger-settlement", s.handleTriggerSettlement)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() { _ = s.limiter.Run(ctx) }()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.logger.Info("Shutting down HTTP server")
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) tooManyRequests(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Login rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r))
	NewJSONResponse().Status(http.StatusTooManyRequests).
		SendError(w, "Too many login attempts. Please try again later.")
}
