package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"edureward/internal/identity"
	"edureward/internal/participation/handler/mocks"
	"edureward/internal/participation/models"
	"edureward/internal/participation/service"
	dErrors "edureward/pkg/domain-errors"
	"edureward/pkg/testutil"
)

const (
	admin identity.Address = "admin-1"
	alice identity.Address = "alice"
)

type HandlerSuite struct {
	suite.Suite
	svc    *mocks.MockService
	router http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.svc = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(s.svc, testutil.NewTokenService(), logger).Register(r)
	s.router = r
}

func heldBy(addr identity.Address) gomock.Matcher {
	return gomock.Cond(func(c identity.Capability) bool { return c.Holder() == addr })
}

func amountOf(v int64) gomock.Matcher {
	return gomock.Cond(func(a models.Amount) bool { return a.Equal(models.NewAmount(v)) })
}

func (s *HandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, req)
}

func (s *HandlerSuite) TestInitialize() {
	s.Run("defaults admin to token holder", func() {
		s.svc.EXPECT().Initialize(gomock.Any(), heldBy(admin), gomock.Cond(func(req service.InitializeRequest) bool {
			return req.Admin == admin && req.TokenRef == "edu-token" &&
				req.RewardAmount.Equal(models.NewAmount(100)) && req.ExpiryDays == 30
		})).Return(models.NewConfiguration(admin, "edu-token", models.NewAmount(100), 30), nil)

		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/registry",
			`{"token_service_ref":"edu-token","reward_amount":"100","expiry_days":30}`)
		rr := s.do(testutil.WithBearer(s.T(), req, admin))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[ConfigurationResponse](s.T(), rr)
		s.Equal(admin, resp.Admin)
		s.Equal(uint64(30*86400), resp.ExpirySeconds)
		s.Equal("0", resp.TotalRewardsDistributed.String())
	})

	s.Run("requires a bearer token", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/registry", `{}`)
		testutil.AssertStatusAndError(s.T(), s.do(req), http.StatusUnauthorized, "unauthorized")
	})

	s.Run("rejects malformed amount", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/registry",
			`{"token_service_ref":"edu-token","reward_amount":"ten","expiry_days":30}`)
		rr := s.do(testutil.WithBearer(s.T(), req, admin))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("rejects unknown fields", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/registry", `{"owner":"x"}`)
		rr := s.do(testutil.WithBearer(s.T(), req, admin))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("capability for another identity is forbidden", func() {
		s.svc.EXPECT().Initialize(gomock.Any(), heldBy(alice), gomock.Any()).Return(nil, models.ErrNotAuthorized)

		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/registry",
			`{"admin":"admin-1","token_service_ref":"edu-token","reward_amount":"100","expiry_days":30}`)
		rr := s.do(testutil.WithBearer(s.T(), req, alice))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})
}

func (s *HandlerSuite) TestParticipate() {
	record := &models.ParticipationRecord{
		Participant:   alice,
		Timestamp:     1_000,
		Comment:       "great lecture",
		RewardAmount:  models.NewAmount(100),
		RewardClaimed: true,
		Expiry:        1_000 + 30*86400,
	}

	s.Run("records participation", func() {
		s.svc.EXPECT().Participate(gomock.Any(), heldBy(alice), alice, "great lecture").Return(record, nil)

		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/participations", `{"comment":"great lecture"}`)
		rr := s.do(testutil.WithBearer(s.T(), req, alice))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		got := testutil.UnmarshalResponse[models.ParticipationRecord](s.T(), rr)
		s.Equal(alice, got.Participant)
		s.True(got.RewardClaimed)
		s.Equal("100", got.RewardAmount.String())
	})

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"already participated", models.ErrAlreadyParticipated, http.StatusConflict, "conflict"},
		{"invalid comment", models.ErrInvalidComment, http.StatusBadRequest, "validation_error"},
		{"not authorized", models.ErrNotAuthorized, http.StatusForbidden, "forbidden"},
		{"transfer failed", models.TransferFailed(errors.New("ledger down")), http.StatusBadGateway, "dependency_failed"},
		{"not initialized", models.ErrNotInitialized, http.StatusConflict, "invalid_state"},
		{"internal", dErrors.Wrap(errors.New("db"), dErrors.CodeInternal, "failed to load"), http.StatusInternalServerError, "internal_error"},
		{"uncoded", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.svc.EXPECT().Participate(gomock.Any(), gomock.Any(), alice, gomock.Any()).Return(nil, tc.err)

			req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/participations", `{"comment":"hi"}`)
			rr := s.do(testutil.WithBearer(s.T(), req, alice))
			testutil.AssertStatusAndError(s.T(), rr, tc.status, tc.code)
		})
	}

	s.Run("explicit participant is passed through", func() {
		s.svc.EXPECT().Participate(gomock.Any(), heldBy(alice), identity.Address("bob"), "hi").Return(nil, models.ErrNotAuthorized)

		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/participations", `{"participant":"bob","comment":"hi"}`)
		rr := s.do(testutil.WithBearer(s.T(), req, alice))
		testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
	})

	s.Run("invalid participant address", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/participations", `{"participant":"has space","comment":"hi"}`)
		rr := s.do(testutil.WithBearer(s.T(), req, alice))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("empty body", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/participations", ``)
		rr := s.do(testutil.WithBearer(s.T(), req, alice))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *HandlerSuite) TestAdminRoutes() {
	s.Run("update reward amount", func() {
		s.svc.EXPECT().UpdateRewardAmount(gomock.Any(), heldBy(admin), admin, amountOf(250)).Return(nil)

		req := testutil.NewRequestWithBody(s.T(), http.MethodPut, "/v1/registry/reward-amount", `{"reward_amount":"250"}`)
		testutil.AssertStatus(s.T(), s.do(testutil.WithBearer(s.T(), req, admin)), http.StatusNoContent)
	})

	s.Run("update by non-admin", func() {
		s.svc.EXPECT().UpdateRewardAmount(gomock.Any(), heldBy(alice), alice, gomock.Any()).Return(models.ErrNotAuthorized)

		req := testutil.NewRequestWithBody(s.T(), http.MethodPut, "/v1/registry/reward-amount", `{"reward_amount":"250"}`)
		testutil.AssertStatusAndError(s.T(), s.do(testutil.WithBearer(s.T(), req, alice)), http.StatusForbidden, "forbidden")
	})

	s.Run("cleanup", func() {
		s.svc.EXPECT().CleanupExpiredTokens(gomock.Any(), heldBy(admin), admin).Return(3, nil)

		req := testutil.NewRequest(s.T(), http.MethodPost, "/v1/registry/cleanup")
		rr := s.do(testutil.WithBearer(s.T(), req, admin))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal(3, testutil.UnmarshalResponse[CleanupResponse](s.T(), rr).Removed)
	})

	s.Run("cleanup without token", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/v1/registry/cleanup")
		testutil.AssertStatus(s.T(), s.do(req), http.StatusUnauthorized)
	})
}

func (s *HandlerSuite) TestQueries() {
	s.Run("configuration absent", func() {
		s.svc.EXPECT().GetConfiguration(gomock.Any()).Return(nil, false, nil)
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/v1/registry"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "invalid_state")
	})

	s.Run("participation found", func() {
		s.svc.EXPECT().GetParticipation(gomock.Any(), alice).Return(&models.ParticipationRecord{
			Participant: alice, Comment: "hi", RewardAmount: models.NewAmount(5), RewardClaimed: true,
		}, true, nil)
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/v1/participations/alice"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal("hi", testutil.UnmarshalResponse[models.ParticipationRecord](s.T(), rr).Comment)
	})

	s.Run("participation absent", func() {
		s.svc.EXPECT().GetParticipation(gomock.Any(), alice).Return(nil, false, nil)
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/v1/participations/alice"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("expired", func() {
		s.svc.EXPECT().IsTokenExpired(gomock.Any(), alice).Return(true, nil)
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/v1/participations/alice/expired"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.True(testutil.UnmarshalResponse[ExpiredResponse](s.T(), rr).Expired)
	})

	s.Run("participants empty list", func() {
		s.svc.EXPECT().GetParticipants(gomock.Any()).Return(nil, nil)
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/v1/participants"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.JSONEq(`{"participants":[]}`, string(testutil.ReadBody(s.T(), rr)))
	})

	s.Run("participants keep index order", func() {
		s.svc.EXPECT().GetParticipants(gomock.Any()).Return([]identity.Address{"bob", alice, "bob"}, nil)
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/v1/participants"))
		s.JSONEq(`{"participants":["bob","alice","bob"]}`, string(testutil.ReadBody(s.T(), rr)))
	})

	s.Run("stats as decimal strings", func() {
		s.svc.EXPECT().GetTotals(gomock.Any()).Return(models.Totals{Participants: 2, RewardsDistributed: models.NewAmount(300)}, nil)
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/v1/stats"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.JSONEq(`{"total_participants":2,"total_rewards_distributed":"300"}`, string(testutil.ReadBody(s.T(), rr)))
	})

	s.Run("store failure", func() {
		s.svc.EXPECT().GetTotals(gomock.Any()).Return(models.Totals{}, dErrors.Wrap(errors.New("db"), dErrors.CodeInternal, "failed to load totals"))
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/v1/stats"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
	})
}
