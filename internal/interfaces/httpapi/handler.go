package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/sports-tournament/internal/domain/score"
	"github.com/riskibarqy/sports-tournament/internal/domain/user"
	"github.com/riskibarqy/sports-tournament/internal/platform/logging"
	"github.com/riskibarqy/sports-tournament/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	scoreService       *usecase.ScoreService
	leaderboardService *usecase.LeaderboardService
	jobService         *usecase.JobService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	scoreService *usecase.ScoreService,
	leaderboardService *usecase.LeaderboardService,
	jobService *usecase.JobService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	return &Handler{
		scoreService:       scoreService,
		leaderboardService: leaderboardService,
		jobService:         jobService,
		logger:             logger.Named("httpapi"),
		validator:          v,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON rejects unknown fields; an empty body decodes to the zero value.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	decoder := sonic.ConfigStd.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// validateRequest reports the first failing field by its JSON name.
func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	err := h.validator.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %w", usecase.ErrInvalidInput, &score.FieldError{
			Field: fe.Field(),
			Err:   fmt.Errorf("failed %q validation", fe.Tag()),
		})
	}
	return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return principal, nil
}

// editGuard binds the caller to the scorekeeper check done inside the score write.
func editGuard(p user.Principal) usecase.EditGuard {
	return func(assigned ...string) bool {
		return user.CanEditScore(p, assigned...)
	}
}

func forbidden(action string) error {
	return fmt.Errorf("%w: %s requires the admin role", usecase.ErrForbidden, action)
}
