package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/abarkov/coffeerun/internal/config"
	"github.com/abarkov/coffeerun/internal/errs"
	"github.com/abarkov/coffeerun/internal/middleware"
	"github.com/abarkov/coffeerun/internal/model"
	"github.com/abarkov/coffeerun/internal/settlement"
	"github.com/abarkov/coffeerun/internal/utils"
)

// settleRetries bounds re-runs of a completion whose optimistic balance
// check lost to a concurrent settlement of an overlapping participant set.
const settleRetries = 3

type Storage interface {
	CreateParticipant(ctx context.Context, name string) (model.Participant, error)
	GetParticipantByID(ctx context.Context, id int) (model.Participant, error)
	ListParticipants(ctx context.Context) ([]model.Participant, error)
	RenameParticipant(ctx context.Context, id int, name string) error
	DeleteParticipant(ctx context.Context, id int) error

	CreateOrder(ctx context.Context, items []model.NewOrderItem) (model.GroupOrder, error)
	ListOrders(ctx context.Context) ([]model.GroupOrder, error)
	GetOrder(ctx context.Context, id int) (model.GroupOrder, error)

	LoadSettlement(ctx context.Context, orderID int) (model.GroupOrder, []settlement.Item, map[int]settlement.Balance, error)
	ApplySettlement(ctx context.Context, orderID int, res settlement.Result, prior map[int]settlement.Balance) error

	LedgerTotals(ctx context.Context) (decimal.Decimal, int, error)
}

type Server struct {
	storage Storage
	config  *config.Config
}

func NewServer(storage Storage, config *config.Config) *Server {
	return &Server{
		storage: storage,
		config:  config,
	}
}

func (srv *Server) buildRouter() http.Handler {
	router := chi.NewRouter()
	router.Use(chiMiddleware.StripSlashes)
	router.Use(middleware.LogMiddleware(srv.config.Logger))
	router.Use(middleware.DecompressMiddleware)
	router.Use(middleware.CompressMiddleware)

	router.Post("/api/participants", srv.CreateParticipantHandler)
	router.Get("/api/participants", srv.ListParticipantsHandler)
	router.Get("/api/participants/{id}", srv.GetParticipantHandler)
	router.Put("/api/participants/{id}", srv.RenameParticipantHandler)
	router.Delete("/api/participants/{id}", srv.DeleteParticipantHandler)

	router.Post("/api/orders", srv.CreateOrderHandler)
	router.Get("/api/orders", srv.ListOrdersHandler)
	router.Get("/api/orders/{id}", srv.GetOrderHandler)
	router.Post("/api/orders/{id}/complete", srv.CompleteOrderHandler)

	return router
}

func (srv *Server) Run(ctx context.Context) error {
	router := srv.buildRouter()

	server := &http.Server{
		Addr:    srv.config.RunAddress,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srv.config.Logger.Fatalf("server error: %v", err)
		}
	}()

	go srv.LedgerAuditControl(ctx)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (s *Server) CreateParticipantHandler(w http.ResponseWriter, r *http.Request) {
	var req model.CreateParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}

	participant, err := s.storage.CreateParticipant(r.Context(), name)
	if err != nil {
		if errors.Is(err, errs.ErrNameAlreadyExists) {
			http.Error(w, "name taken", http.StatusConflict)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(participant); err != nil {
		s.config.Logger.Errorf("encode participant: %v", err)
	}
}

func (s *Server) ListParticipantsHandler(w http.ResponseWriter, r *http.Request) {
	participants, err := s.storage.ListParticipants(r.Context())
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	if len(participants) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(participants); err != nil {
		http.Error(w, "encode error", http.StatusInternalServerError)
	}
}

func (s *Server) GetParticipantHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	participant, err := s.storage.GetParticipantByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrParticipantNotFound) {
			http.Error(w, "participant not found", http.StatusNotFound)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(participant); err != nil {
		http.Error(w, "encode error", http.StatusInternalServerError)
	}
}

func (s *Server) RenameParticipantHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req model.RenameParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}

	err = s.storage.RenameParticipant(r.Context(), id, name)
	switch {
	case errors.Is(err, errs.ErrParticipantNotFound):
		http.Error(w, "participant not found", http.StatusNotFound)
	case errors.Is(err, errs.ErrNameAlreadyExists):
		http.Error(w, "name taken", http.StatusConflict)
	case err != nil:
		http.Error(w, "db error", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) DeleteParticipantHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	err = s.storage.DeleteParticipant(r.Context(), id)
	switch {
	case errors.Is(err, errs.ErrParticipantNotFound):
		http.Error(w, "participant not found", http.StatusNotFound)
	case err != nil:
		http.Error(w, "db error", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	for _, item := range req.Items {
		if !utils.ValidItemName(item.Name) {
			http.Error(w, "item name required", http.StatusUnprocessableEntity)
			return
		}
		if !utils.ValidPrice(item.Price) {
			http.Error(w, "invalid item price", http.StatusUnprocessableEntity)
			return
		}
	}

	order, err := s.storage.CreateOrder(r.Context(), req.Items)
	if err != nil {
		if errors.Is(err, errs.ErrParticipantNotFound) {
			http.Error(w, "unknown participant", http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(order); err != nil {
		s.config.Logger.Errorf("encode order: %v", err)
	}
}

func (s *Server) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := s.storage.ListOrders(r.Context())
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		http.Error(w, "encode error", http.StatusInternalServerError)
	}
}

func (s *Server) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	order, err := s.storage.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(order); err != nil {
		http.Error(w, "encode error", http.StatusInternalServerError)
	}
}

func (s *Server) CompleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var order model.GroupOrder
	for attempt := 0; attempt < settleRetries; attempt++ {
		order, err = s.completeOrder(r.Context(), id)
		if !errors.Is(err, errs.ErrConcurrencyConflict) {
			break
		}
		s.config.Logger.Infof("settlement conflict on order %d, retrying", id)
	}

	switch {
	case errors.Is(err, errs.ErrOrderNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, errs.ErrOrderNotPending):
		http.Error(w, "order already completed", http.StatusConflict)
	case errors.Is(err, errs.ErrEmptyOrder):
		http.Error(w, "order has no items", http.StatusUnprocessableEntity)
	case errors.Is(err, errs.ErrParticipantNotFound):
		http.Error(w, "order references a removed participant", http.StatusUnprocessableEntity)
	case errors.Is(err, errs.ErrConcurrencyConflict):
		http.Error(w, "settlement conflict, try again", http.StatusConflict)
	case err != nil:
		http.Error(w, "db error", http.StatusInternalServerError)
	default:
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(order); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}

// completeOrder runs one settlement attempt: snapshot, pure engine pass,
// atomic write-back. On ErrConcurrencyConflict nothing was written and the
// whole call is safe to repeat from a fresh snapshot.
func (s *Server) completeOrder(ctx context.Context, id int) (model.GroupOrder, error) {
	order, items, balances, err := s.storage.LoadSettlement(ctx, id)
	if err != nil {
		return model.GroupOrder{}, err
	}

	if order.Status != model.Pending {
		return model.GroupOrder{}, errs.ErrOrderNotPending
	}

	res, err := settlement.Settle(order.OrderDate, items, balances)
	if err != nil {
		return model.GroupOrder{}, err
	}

	if err := s.storage.ApplySettlement(ctx, id, res, balances); err != nil {
		return model.GroupOrder{}, err
	}

	s.config.Logger.Infof("order %d settled, payer %d paid %s", id, res.PayerID, res.TotalPrice)

	return s.storage.GetOrder(ctx, id)
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}
