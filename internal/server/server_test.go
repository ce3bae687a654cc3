package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"

	"github.com/abarkov/coffeerun/internal/config"
	"github.com/abarkov/coffeerun/internal/errs"
	"github.com/abarkov/coffeerun/internal/mocks"
	"github.com/abarkov/coffeerun/internal/model"
	"github.com/abarkov/coffeerun/internal/settlement"
)

func setup(t *testing.T) (http.Handler, *mocks.MockStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockStorage := mocks.NewMockStorage(ctrl)

	logger := zaptest.NewLogger(t)
	cfg := &config.Config{Logger: logger.Sugar()}

	srv := NewServer(mockStorage, cfg)

	return srv.buildRouter(), mockStorage
}

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateParticipantHandler(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().
		CreateParticipant(gomock.Any(), "Dan").
		Return(model.Participant{ID: 1, Name: "Dan", NetCredit: decimal.Zero}, nil)

	w := doJSON(router, "POST", "/api/participants", `{"name":"Dan"}`)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"Dan"`) {
		t.Errorf("response is missing the participant: %s", w.Body.String())
	}
}

func TestCreateParticipantHandlerNameTaken(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().
		CreateParticipant(gomock.Any(), "Dan").
		Return(model.Participant{}, errs.ErrNameAlreadyExists)

	w := doJSON(router, "POST", "/api/participants", `{"name":"Dan"}`)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestCreateParticipantHandlerBlankName(t *testing.T) {
	router, _ := setup(t)

	w := doJSON(router, "POST", "/api/participants", `{"name":"  "}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestListParticipantsHandlerEmpty(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().ListParticipants(gomock.Any()).Return(nil, nil)

	w := doJSON(router, "GET", "/api/participants", "")

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
}

func TestGetParticipantHandler(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().
		GetParticipantByID(gomock.Any(), 7).
		Return(model.Participant{ID: 7, Name: "Jim", NetCredit: decimal.RequireFromString("-5")}, nil)

	w := doJSON(router, "GET", "/api/participants/7", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"Jim"`) {
		t.Errorf("response is missing the participant: %s", w.Body.String())
	}
}

func TestGetParticipantHandlerNotFound(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().
		GetParticipantByID(gomock.Any(), 99).
		Return(model.Participant{}, errs.ErrParticipantNotFound)

	w := doJSON(router, "GET", "/api/participants/99", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestRenameParticipantHandler(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().RenameParticipant(gomock.Any(), 7, "Jimbo").Return(nil)

	w := doJSON(router, "PUT", "/api/participants/7", `{"name":"Jimbo"}`)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestDeleteParticipantHandler(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().DeleteParticipant(gomock.Any(), 7).Return(nil)

	w := doJSON(router, "DELETE", "/api/participants/7", "")

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
}

func TestCreateOrderHandler(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().
		CreateOrder(gomock.Any(), gomock.Any()).
		Return(model.GroupOrder{
			ID:         1,
			OrderDate:  time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			Status:     model.Pending,
			TotalPrice: decimal.RequireFromString("6"),
		}, nil)

	body := `{"items":[{"name":"black coffee","price":1,"participant_id":1},{"name":"cappuccino","price":5,"participant_id":2}]}`
	w := doJSON(router, "POST", "/api/orders", body)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"PENDING"`) {
		t.Errorf("response is missing the order: %s", w.Body.String())
	}
}

func TestCreateOrderHandlerRejectsNegativePrice(t *testing.T) {
	router, _ := setup(t)

	body := `{"items":[{"name":"black coffee","price":-1,"participant_id":1}]}`
	w := doJSON(router, "POST", "/api/orders", body)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
}

func TestCreateOrderHandlerRejectsBlankItemName(t *testing.T) {
	router, _ := setup(t)

	body := `{"items":[{"name":"   ","price":1,"participant_id":1}]}`
	w := doJSON(router, "POST", "/api/orders", body)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
}

func pendingSnapshot() (model.GroupOrder, []settlement.Item, map[int]settlement.Balance) {
	orderDate := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	settled := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	order := model.GroupOrder{ID: 1, OrderDate: orderDate, Status: model.Pending}
	items := []settlement.Item{
		{ParticipantID: 1, Price: decimal.RequireFromString("1")},
		{ParticipantID: 2, Price: decimal.RequireFromString("5")},
	}
	balances := map[int]settlement.Balance{
		1: {NetCredit: decimal.RequireFromString("10"), LastSettlementDate: &settled},
		2: {NetCredit: decimal.RequireFromString("-5")},
	}
	return order, items, balances
}

func TestCompleteOrderHandler(t *testing.T) {
	router, mock := setup(t)

	order, items, balances := pendingSnapshot()
	payerID := 1
	completed := order
	completed.Status = model.Complete
	completed.PayerID = &payerID
	completed.TotalPrice = decimal.RequireFromString("6")

	mock.EXPECT().LoadSettlement(gomock.Any(), 1).Return(order, items, balances, nil)
	mock.EXPECT().ApplySettlement(gomock.Any(), 1, gomock.Any(), gomock.Any()).Return(nil)
	mock.EXPECT().GetOrder(gomock.Any(), 1).Return(completed, nil)

	w := doJSON(router, "POST", "/api/orders/1/complete", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"COMPLETE"`) {
		t.Errorf("response is missing the completed order: %s", w.Body.String())
	}
}

func TestCompleteOrderHandlerAlreadyComplete(t *testing.T) {
	router, mock := setup(t)

	order, items, balances := pendingSnapshot()
	order.Status = model.Complete

	mock.EXPECT().LoadSettlement(gomock.Any(), 1).Return(order, items, balances, nil)

	w := doJSON(router, "POST", "/api/orders/1/complete", "")

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestCompleteOrderHandlerEmptyOrder(t *testing.T) {
	router, mock := setup(t)

	order, _, _ := pendingSnapshot()

	mock.EXPECT().LoadSettlement(gomock.Any(), 1).Return(order, nil, map[int]settlement.Balance{}, nil)

	w := doJSON(router, "POST", "/api/orders/1/complete", "")

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
}

func TestCompleteOrderHandlerNotFound(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().
		LoadSettlement(gomock.Any(), 1).
		Return(model.GroupOrder{}, nil, nil, errs.ErrOrderNotFound)

	w := doJSON(router, "POST", "/api/orders/1/complete", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestCompleteOrderHandlerRetriesOnConflict(t *testing.T) {
	router, mock := setup(t)

	order, items, balances := pendingSnapshot()
	payerID := 1
	completed := order
	completed.Status = model.Complete
	completed.PayerID = &payerID

	mock.EXPECT().LoadSettlement(gomock.Any(), 1).Return(order, items, balances, nil).Times(2)
	mock.EXPECT().ApplySettlement(gomock.Any(), 1, gomock.Any(), gomock.Any()).Return(errs.ErrConcurrencyConflict)
	mock.EXPECT().ApplySettlement(gomock.Any(), 1, gomock.Any(), gomock.Any()).Return(nil)
	mock.EXPECT().GetOrder(gomock.Any(), 1).Return(completed, nil)

	w := doJSON(router, "POST", "/api/orders/1/complete", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestCompleteOrderHandlerConflictExhaustsRetries(t *testing.T) {
	router, mock := setup(t)

	order, items, balances := pendingSnapshot()

	mock.EXPECT().LoadSettlement(gomock.Any(), 1).Return(order, items, balances, nil).Times(settleRetries)
	mock.EXPECT().
		ApplySettlement(gomock.Any(), 1, gomock.Any(), gomock.Any()).
		Return(errs.ErrConcurrencyConflict).
		Times(settleRetries)

	w := doJSON(router, "POST", "/api/orders/1/complete", "")

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}
