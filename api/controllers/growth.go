package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nazmulcodes/deshcart-backend/api/responses"
	"github.com/nazmulcodes/deshcart-backend/api/validators"
	"github.com/nazmulcodes/deshcart-backend/internal/growthmap"
	"github.com/nazmulcodes/deshcart-backend/pkg/config"
	pkgerrors "github.com/nazmulcodes/deshcart-backend/pkg/errors"
	"github.com/nazmulcodes/deshcart-backend/pkg/logger"
)

const (
	maxTimeframeMonths = 24
	minSpeedMS         = 50
)

type sessionView struct {
	SessionID       string                     `json:"sessionId"`
	TimeframeMonths int                        `json:"timeframeMonths"`
	Division        string                     `json:"division,omitempty"`
	Playback        growthmap.PlaybackSnapshot `json:"playback"`
}

func newSessionView(session *growthmap.Session) sessionView {
	return sessionView{
		SessionID:       session.ID.String(),
		TimeframeMonths: session.TimeframeMonths,
		Division:        session.Division,
		Playback:        session.Controller().Snapshot(),
	}
}

// GrowthFrames returns the full animation for the requested filter.
func GrowthFrames(svc *growthmap.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		timeframe, err := validators.ParseQueryInt(r, "timeframe", cfg.Growth.DefaultTimeframe, 1, maxTimeframeMonths)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		division, err := validators.ParseDivision(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if division != "" && logg != nil {
			ctx = logg.WithDivision(ctx, division)
		}

		frames, err := svc.Frames(ctx, timeframe, division)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"timeframeMonths": timeframe,
			"division":        division,
			"frames":          frames,
		})
	}
}

type createSessionInput struct {
	TimeframeMonths int    `json:"timeframe_months" validate:"gte=0,lte=24"`
	Division        string `json:"division" validate:"max=60"`
	SpeedMS         int    `json:"speed_ms" validate:"gte=0,lte=10000"`
}

// GrowthSessionCreate loads frames for the filter and opens a playback
// session over them.
func GrowthSessionCreate(svc *growthmap.Service, sessions *growthmap.SessionManager, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var input createSessionInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if input.TimeframeMonths <= 0 {
			input.TimeframeMonths = cfg.Growth.DefaultTimeframe
		}

		speed := cfg.Growth.DefaultSpeed()
		if input.SpeedMS >= minSpeedMS {
			speed = time.Duration(input.SpeedMS) * time.Millisecond
		}

		frames, err := svc.Frames(ctx, input.TimeframeMonths, input.Division)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		session := sessions.Create(ctx, frames, input.TimeframeMonths, input.Division, speed)
		responses.WriteSuccessStatus(w, http.StatusCreated, newSessionView(session))
	}
}

// GrowthSessionState returns the playback snapshot for one session.
func GrowthSessionState(sessions *growthmap.SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(sessions, logg, w, r, func(session *growthmap.Session) {
			responses.WriteSuccess(w, newSessionView(session))
		})
	}
}

// GrowthSessionPlay starts or resumes playback.
func GrowthSessionPlay(sessions *growthmap.SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(sessions, logg, w, r, func(session *growthmap.Session) {
			session.Controller().Play()
			responses.WriteSuccess(w, newSessionView(session))
		})
	}
}

// GrowthSessionPause freezes playback at the current frame.
func GrowthSessionPause(sessions *growthmap.SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(sessions, logg, w, r, func(session *growthmap.Session) {
			session.Controller().Pause()
			responses.WriteSuccess(w, newSessionView(session))
		})
	}
}

// GrowthSessionReset rewinds to the first frame.
func GrowthSessionReset(sessions *growthmap.SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(sessions, logg, w, r, func(session *growthmap.Session) {
			session.Controller().Reset()
			responses.WriteSuccess(w, newSessionView(session))
		})
	}
}

type seekInput struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

// GrowthSessionSeek jumps the cursor to the given frame index.
func GrowthSessionSeek(sessions *growthmap.SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input seekInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		withSession(sessions, logg, w, r, func(session *growthmap.Session) {
			session.Controller().Seek(*input.Index)
			responses.WriteSuccess(w, newSessionView(session))
		})
	}
}

type speedInput struct {
	SpeedMS int `json:"speed_ms" validate:"required,gte=50,lte=10000"`
}

// GrowthSessionSpeed changes the playback cadence.
func GrowthSessionSpeed(sessions *growthmap.SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input speedInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		withSession(sessions, logg, w, r, func(session *growthmap.Session) {
			session.Controller().SetSpeed(time.Duration(input.SpeedMS) * time.Millisecond)
			responses.WriteSuccess(w, newSessionView(session))
		})
	}
}

// GrowthSessionDelete closes the session and frees its ticker.
func GrowthSessionDelete(sessions *growthmap.SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(sessions, logg, w, r, func(session *growthmap.Session) {
			sessions.Delete(session.ID)
			responses.WriteSuccess(w, map[string]string{"status": "deleted"})
		})
	}
}

func withSession(sessions *growthmap.SessionManager, logg *logger.Logger, w http.ResponseWriter, r *http.Request, fn func(*growthmap.Session)) {
	ctx := r.Context()

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionId"))
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid session id"))
		return
	}

	session, err := sessions.Get(sessionID)
	if err != nil {
		responses.WriteError(ctx, logg, w, err)
		return
	}
	fn(session)
}
