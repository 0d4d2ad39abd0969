package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "freightsim/internal/adapters/in/http"
	"freightsim/internal/core/application/usecases/commands"
	"freightsim/internal/core/application/usecases/queries"
	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/run"
	"freightsim/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRunSimulationHandler struct{ mock.Mock }

func (m *MockRunSimulationHandler) Handle(ctx context.Context, cmd commands.RunSimulationCommand) (*run.Run, error) {
	args := m.Called(ctx, cmd)
	r, _ := args.Get(0).(*run.Run)
	return r, args.Error(1)
}

type MockGetRunHandler struct{ mock.Mock }

func (m *MockGetRunHandler) Handle(ctx context.Context, query queries.GetRunQuery) (*queries.RunSummary, error) {
	args := m.Called(ctx, query)
	s, _ := args.Get(0).(*queries.RunSummary)
	return s, args.Error(1)
}

type MockGetAllRunsHandler struct{ mock.Mock }

func (m *MockGetAllRunsHandler) Handle(ctx context.Context, query queries.GetAllRunsQuery) ([]queries.RunSummary, error) {
	args := m.Called(ctx, query)
	s, _ := args.Get(0).([]queries.RunSummary)
	return s, args.Error(1)
}

type fixture struct {
	e      *echo.Echo
	runSim *MockRunSimulationHandler
	getRun *MockGetRunHandler
	getAll *MockGetAllRunsHandler
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		runSim: new(MockRunSimulationHandler),
		getRun: new(MockGetRunHandler),
		getAll: new(MockGetAllRunsHandler),
	}
	server := httpadapter.NewServer(f.runSim, f.getRun, f.getAll)
	e, err := httpadapter.NewEcho(server, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	f.e = e
	return f
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

const validRun = `{
  "name": "two-node",
  "seed": 9,
  "horizonDays": 5,
  "network": {
    "nodes": 2,
    "transporters": 1,
    "demandRates": [[0, 1], [1, 0]],
    "travelTimes": [[0, 1], [1, 0]],
    "gracePeriodMean": [[0, 1], [1, 0]],
    "gracePeriodCoeffVar": [[0, 0], [0, 0]]
  }
}`

func storedRun(t *testing.T, seed uint64) *run.Run {
	t.Helper()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r, err := run.NewRun(run.Params{
		ID:               kernel.NewUUID(),
		Name:             "two-node",
		Seed:             seed,
		HorizonDays:      5,
		NodeCount:        2,
		TransporterCount: 1,
		Created:          3,
		Delivered:        3,
		Late:             1,
		DelayRate:        kernel.NewRatio(1, 3),
		MeanDelay:        kernel.NewRatio(0.3, 3),
		Utilization:      []float64{0.4},
		StartedAt:        at,
		FinishedAt:       at,
	})
	require.NoError(t, err)
	return r
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestCreateRun(t *testing.T) {
	t.Run("should run the simulation and return the summary", func(t *testing.T) {
		f := newFixture(t)
		stored := storedRun(t, 9)
		f.runSim.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RunSimulationCommand) bool {
			return cmd.Name() == "two-node" && cmd.Seed() == 9 && cmd.HorizonDays() == 5 &&
				cmd.Config().NodeCount() == 2
		})).Return(stored, nil).Once()

		rec := f.do(http.MethodPost, "/api/v1/runs", validRun)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var body httpadapter.Run
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, stored.ID().String(), body.Id.String())
		assert.Equal(t, uint64(9), body.Seed)
		assert.Equal(t, 3, body.Delivered)
		require.NotNil(t, body.DelayRate)
		assert.InDelta(t, 1.0/3, *body.DelayRate, 1e-12)
		assert.Nil(t, body.TransportingRatio)
		assert.Contains(t, rec.Body.String(), `"transportingRatio":null`)
		f.runSim.AssertExpectations(t)
	})

	t.Run("should reject a body that does not match the schema", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/runs", `{"name": "x", "horizonDays": -1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.runSim.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("should reject an inconsistent network", func(t *testing.T) {
		f := newFixture(t)
		body := strings.Replace(validRun, `"travelTimes": [[0, 1], [1, 0]]`, `"travelTimes": [[0, 1]]`, 1)

		rec := f.do(http.MethodPost, "/api/v1/runs", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid network")
		f.runSim.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("should reject an oversized network before running it", func(t *testing.T) {
		tests := []struct {
			name string
			from string
			to   string
		}{
			{"too many transporters", `"transporters": 1`, `"transporters": 1000000000`},
			{"too many nodes", `"nodes": 2`, `"nodes": 5000`},
			{"horizon too long", `"horizonDays": 5`, `"horizonDays": 100000`},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				f := newFixture(t)

				rec := f.do(http.MethodPost, "/api/v1/runs", strings.Replace(validRun, tc.from, tc.to, 1))

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				f.runSim.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("should reject a run expected to create too many orders", func(t *testing.T) {
		f := newFixture(t)
		body := strings.Replace(validRun, `"demandRates": [[0, 1], [1, 0]]`, `"demandRates": [[0, 1000000], [1000000, 0]]`, 1)

		rec := f.do(http.MethodPost, "/api/v1/runs", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "expectedOrders")
		f.runSim.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("should report a stopped simulation", func(t *testing.T) {
		f := newFixture(t)
		violation := errs.NewInvariantViolationError("transporter[0]", "busy transporter assigned")
		f.runSim.On("Handle", mock.Anything, mock.Anything).Return(nil, violation).Once()

		rec := f.do(http.MethodPost, "/api/v1/runs", validRun)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "busy transporter assigned")
	})
}

func TestListRuns(t *testing.T) {
	t.Run("should use the default limit", func(t *testing.T) {
		f := newFixture(t)
		f.getAll.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetAllRunsQuery) bool {
			return q.Limit() == queries.DefaultRunsLimit
		})).Return([]queries.RunSummary{}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/runs", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
		f.getAll.AssertExpectations(t)
	})

	t.Run("should pass the requested limit", func(t *testing.T) {
		f := newFixture(t)
		id := kernel.NewUUID()
		f.getAll.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetAllRunsQuery) bool {
			return q.Limit() == 3
		})).Return([]queries.RunSummary{{ID: id, Name: "a", NodeCount: 1}}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/runs?limit=3", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body []httpadapter.Run
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, id.String(), body[0].Id.String())
		assert.NotNil(t, body[0].Utilization)
	})

	t.Run("should reject a limit out of range", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/runs?limit=0", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.getAll.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("should report storage failures", func(t *testing.T) {
		f := newFixture(t)
		f.getAll.On("Handle", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

		rec := f.do(http.MethodGet, "/api/v1/runs", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetRun(t *testing.T) {
	t.Run("should return the run", func(t *testing.T) {
		f := newFixture(t)
		id := kernel.NewUUID()
		f.getRun.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetRunQuery) bool {
			return q.RunID().IsEqual(id)
		})).Return(&queries.RunSummary{ID: id, Name: "a", DelayRate: kernel.NewRatio(1, 2)}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/runs/"+id.String(), "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"delayRate":0.5`)
	})

	t.Run("should return 404 for an unknown run", func(t *testing.T) {
		f := newFixture(t)
		id := kernel.NewUUID()
		f.getRun.On("Handle", mock.Anything, mock.Anything).
			Return(nil, errs.NewObjectNotFoundError("run", id.String())).Once()

		rec := f.do(http.MethodGet, "/api/v1/runs/"+id.String(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("should reject a malformed id", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/runs/not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.getRun.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestGetSwagger(t *testing.T) {
	doc, err := httpadapter.GetSwagger()

	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/api/v1/runs"))
	assert.NotNil(t, doc.Paths.Find("/api/v1/runs/{runId}"))
}
