package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"edureward/internal/identity"
	"edureward/internal/ledger"
	"edureward/internal/participation/models"
	"edureward/internal/participation/service"
	"edureward/internal/participation/store/memory"
	"edureward/pkg/platform/middleware/requesttime"
	"edureward/pkg/testutil"
)

// TestRouterEndToEnd drives the real service over memory stores through HTTP.
func TestRouterEndToEnd(t *testing.T) {
	const pool identity.Address = "pool"
	l := ledger.NewInMemory()
	require.NoError(t, l.Mint("EDU", pool, models.NewAmount(1_000)))

	tx := memory.NewTx()
	svc, err := service.New(memory.NewConfigStore(tx), memory.NewRecordStore(tx), tx, l,
		service.WithPoolAccount(pool),
	)
	require.NoError(t, err)

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	r := chi.NewRouter()
	r.Use(requesttime.WithClock(func() time.Time { return now }))
	New(svc, testutil.NewTokenService(), slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)

	send := func(req *http.Request, who identity.Address) int {
		if who != "" {
			req = testutil.WithBearer(t, req, who)
		}
		return testutil.DoRequest(r, req).Code
	}

	require.Equal(t, http.StatusConflict, send(testutil.NewRequestWithBody(t, http.MethodPost, "/v1/participations", `{"comment":"early"}`), "alice"))

	require.Equal(t, http.StatusCreated, send(testutil.NewRequestWithBody(t, http.MethodPost, "/v1/registry",
		`{"token_service_ref":"EDU","reward_amount":"100","expiry_days":1}`), "admin"))

	require.Equal(t, http.StatusCreated, send(testutil.NewRequestWithBody(t, http.MethodPost, "/v1/participations", `{"comment":"great"}`), "alice"))
	require.Equal(t, http.StatusConflict, send(testutil.NewRequestWithBody(t, http.MethodPost, "/v1/participations", `{"comment":"again"}`), "alice"))
	require.Equal(t, http.StatusBadRequest, send(testutil.NewRequestWithBody(t, http.MethodPost, "/v1/participations", `{"comment":"   "}`), "bob"))
	require.Equal(t, "100", l.Balance("EDU", "alice").String())

	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/v1/stats"))
	require.JSONEq(t, `{"total_participants":1,"total_rewards_distributed":"100"}`, string(testutil.ReadBody(t, rr)))

	require.Equal(t, http.StatusForbidden, send(testutil.NewRequest(t, http.MethodPost, "/v1/registry/cleanup"), "alice"))

	now = now.Add(24*time.Hour + time.Second)
	rr = testutil.DoRequest(r, testutil.WithBearer(t, testutil.NewRequest(t, http.MethodPost, "/v1/registry/cleanup"), "admin"))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 1, testutil.UnmarshalResponse[CleanupResponse](t, rr).Removed)

	require.Equal(t, http.StatusNotFound, send(testutil.NewRequest(t, http.MethodGet, "/v1/participations/alice"), ""))
	rr = testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/v1/participants"))
	require.JSONEq(t, `{"participants":["alice"]}`, string(testutil.ReadBody(t, rr)))
}
