package accident

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"accident-service/internal/geo"
	"accident-service/internal/responder"
	"accident-service/internal/user"
	"accident-service/pkg/errs"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	DefaultGracePeriod   = 30 * time.Second
	DefaultMapLinkFormat = "https://www.google.com/maps?q=%s,%s"
)

type AccidentService interface {
	ReportAccident(ctx context.Context, req *ReportAccidentRequest) (*Accident, error)
	GetAccident(ctx context.Context, id string) (*Accident, error)
	CancelAccident(ctx context.Context, id string) (*Accident, error)
	TriggerAlerts(ctx context.Context, id string) (*TriggerResult, error)
	AcceptEmergency(ctx context.Context, id string, req *AcceptEmergencyRequest) (*Accident, error)
	RecoverPendingAlerts(ctx context.Context) (int, error)
	Locate(ctx context.Context, lat, lon float64) (*LocationOverview, error)
	MapLink(loc Location) string
	Shutdown()
}

// Notifier delivers one text or voice call. It reports delivery success and
// never fails the caller.
type Notifier interface {
	SendText(ctx context.Context, phone, body string) bool
	PlaceCall(ctx context.Context, phone, spokenMessage string) bool
}

type Pusher interface {
	Push(ctx context.Context, tokens []string, title, body string, data map[string]string) int
}

type Locator interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
	DrivingRoute(ctx context.Context, fromLat, fromLon, toLat, toLon float64) (*geo.Route, error)
}

// Dependencies are the handles the lifecycle controller works through.
// Pusher and Locator are optional.
type Dependencies struct {
	Accidents AccidentRepository
	Users     user.UserService
	Directory responder.Directory
	Notifier  Notifier
	Pusher    Pusher
	Locator   Locator
	Logger    *zap.SugaredLogger
}

type Options struct {
	GracePeriod           time.Duration
	RequireRegisteredUser bool
	MapLinkFormat         string
}

type accidentService struct {
	accidentRepository AccidentRepository
	userService        user.UserService
	directory          responder.Directory
	notifier           Notifier
	pusher             Pusher
	locator            Locator
	logger             *zap.SugaredLogger
	opts               Options

	countdown *Countdown
	baseCtx   context.Context
	cancel    context.CancelFunc
}

func NewAccidentService(deps Dependencies, opts Options) AccidentService {
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}
	if opts.MapLinkFormat == "" {
		opts.MapLinkFormat = DefaultMapLinkFormat
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &accidentService{
		accidentRepository: deps.Accidents,
		userService:        deps.Users,
		directory:          deps.Directory,
		notifier:           deps.Notifier,
		pusher:             deps.Pusher,
		locator:            deps.Locator,
		logger:             logger,
		opts:               opts,
		countdown:          NewCountdown(),
		baseCtx:            ctx,
		cancel:             cancel,
	}
}

func (s *accidentService) ReportAccident(ctx context.Context, req *ReportAccidentRequest) (*Accident, error) {

	userID := strings.TrimSpace(req.UserID)
	name := strings.TrimSpace(req.Name)
	if userID == "" || name == "" {
		return nil, fmt.Errorf("%w: user_id and name are required", errs.ErrValidation)
	}
	if req.Lat == nil || req.Lon == nil {
		return nil, fmt.Errorf("%w: lat and lon are required", errs.ErrValidation)
	}
	if err := ValidateCoordinates(*req.Lat, *req.Lon); err != nil {
		return nil, err
	}

	profile, err := s.userService.FindProfile(ctx, userID)
	if err != nil {
		if s.opts.RequireRegisteredUser {
			return nil, err
		}
		s.logger.Warnw("Profile lookup failed, continuing without it", "user_id", userID, "error", err)
	}
	if profile == nil && s.opts.RequireRegisteredUser {
		return nil, fmt.Errorf("%w: user %s is not registered", errs.ErrNotFound, userID)
	}

	now := time.Now().UTC()
	accident := &Accident{
		UserID:    userID,
		Name:      name,
		Location:  Location{Lat: *req.Lat, Lon: *req.Lon},
		Status:    StatusAwaitingConfirmation,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.accidentRepository.Create(ctx, accident); err != nil {
		return nil, err
	}

	s.scheduleTrigger(accident.ID)

	if profile != nil && s.pusher != nil && len(profile.DeviceTokens) > 0 {
		go s.pusher.Push(s.baseCtx, profile.DeviceTokens,
			"Accident detected",
			fmt.Sprintf("Your emergency contacts will be alerted in %s. Cancel now if you are safe.", s.opts.GracePeriod),
			map[string]string{"accident_id": accident.ID.Hex(), "type": "accident_countdown"})
	}

	s.logger.Infow("🚨 Accident reported, countdown started",
		"accident_id", accident.ID.Hex(), "user_id", userID, "grace_period", s.opts.GracePeriod.String())
	return accident, nil
}

func (s *accidentService) GetAccident(ctx context.Context, id string) (*Accident, error) {

	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	accident, err := s.accidentRepository.FindByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if accident == nil {
		return nil, fmt.Errorf("%w: accident %s", errs.ErrNotFound, id)
	}
	return accident, nil
}

func (s *accidentService) CancelAccident(ctx context.Context, id string) (*Accident, error) {

	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	updated, err := s.accidentRepository.ApplyTransition(ctx, objID, transitionFor(EventCancel))
	if err != nil {
		return nil, err
	}
	if updated != nil {
		s.countdown.Cancel(objID.Hex())
		s.logger.Infow("🛑 Accident cancelled before dispatch", "accident_id", id)
		return updated, nil
	}

	current, err := s.GetAccident(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == StatusCancelled {
		return current, nil
	}
	return nil, fmt.Errorf("%w: accident %s is %s", errs.ErrInvalidTransition, id, current.Status)
}

func (s *accidentService) TriggerAlerts(ctx context.Context, id string) (*TriggerResult, error) {

	current, err := s.GetAccident(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &TriggerResult{AccidentID: id, Status: current.Status, MapURL: s.MapLink(current.Location)}

	if current.Status.IsDispatched() {
		s.logger.Infow("⏭️ Alerts already dispatched, skipping", "accident_id", id, "status", current.Status)
		return result, nil
	}
	if !current.Status.CanApply(EventTrigger) {
		return nil, fmt.Errorf("%w: accident %s is %s", errs.ErrInvalidTransition, id, current.Status)
	}

	s.countdown.Cancel(current.ID.Hex())

	updated, err := s.accidentRepository.ApplyTransition(ctx, current.ID, transitionFor(EventTrigger))
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// lost the race against a cancel or the countdown
		latest, err := s.GetAccident(ctx, id)
		if err != nil {
			return nil, err
		}
		if latest.Status == StatusCancelled {
			return nil, fmt.Errorf("%w: accident %s is %s", errs.ErrInvalidTransition, id, latest.Status)
		}
		result.Status = latest.Status
		return result, nil
	}

	summary := s.fanOut(context.WithoutCancel(ctx), updated)

	result.Status = updated.Status
	result.Dispatched = true
	result.Summary = &summary
	return result, nil
}

func (s *accidentService) AcceptEmergency(ctx context.Context, id string, req *AcceptEmergencyRequest) (*Accident, error) {

	hospitalName := strings.TrimSpace(req.HospitalName)
	if nonSpaceLen(hospitalName) < 2 {
		return nil, fmt.Errorf("%w: hospital_name must have at least 2 characters", errs.ErrValidation)
	}
	// stored as given, local formats included; it is only relayed to the family
	hospitalPhone := strings.TrimSpace(req.HospitalPhone)

	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	t := transitionFor(EventAccept)
	t.RespondingHospital = hospitalName
	t.HospitalPhone = hospitalPhone

	updated, err := s.accidentRepository.ApplyTransition(ctx, objID, t)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		current, err := s.GetAccident(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: accident %s is %s", errs.ErrInvalidTransition, id, current.Status)
	}

	s.notifyAcceptance(context.WithoutCancel(ctx), updated)

	s.logger.Infow("🏥 Emergency accepted", "accident_id", id, "hospital", hospitalName)
	return updated, nil
}

// RecoverPendingAlerts fires the deferred trigger for accidents whose grace period
// has elapsed without a countdown job, such as jobs lost in a restart.
func (s *accidentService) RecoverPendingAlerts(ctx context.Context) (int, error) {

	cutoff := time.Now().UTC().Add(-s.opts.GracePeriod)

	stale, err := s.accidentRepository.FindPendingBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, a := range stale {
		if s.countdown.Pending(a.ID.Hex()) {
			continue
		}
		s.logger.Warnw("Recovering accident with no countdown", "accident_id", a.ID.Hex(), "created_at", a.CreatedAt)
		if s.fireTrigger(ctx, a.ID) {
			recovered++
		}
	}
	return recovered, nil
}

func (s *accidentService) Locate(ctx context.Context, lat, lon float64) (*LocationOverview, error) {

	if err := ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	overview := &LocationOverview{Address: geo.AddressNotFound}

	if s.locator != nil {
		address, err := s.locator.ReverseGeocode(ctx, lat, lon)
		if err != nil {
			s.logger.Warnw("Reverse geocoding failed", "lat", lat, "lon", lon, "error", err)
		}
		overview.Address = address
	}

	hospitals := s.directory.TopHospitals(ctx, lat, lon, 1)
	if len(hospitals) == 0 {
		return overview, nil
	}
	nearest := hospitals[0]
	overview.NearestHospital = &nearest

	if s.locator != nil {
		route, err := s.locator.DrivingRoute(ctx, lat, lon, nearest.Lat, nearest.Lon)
		if err != nil {
			s.logger.Warnw("Routing failed", "lat", lat, "lon", lon, "error", err)
		}
		overview.Route = route
	}

	return overview, nil
}

func (s *accidentService) MapLink(loc Location) string {
	return fmt.Sprintf(s.opts.MapLinkFormat, formatCoord(loc.Lat), formatCoord(loc.Lon))
}

func (s *accidentService) Shutdown() {
	s.countdown.Stop()
	s.cancel()
}

func (s *accidentService) scheduleTrigger(id primitive.ObjectID) {
	s.countdown.Schedule(id.Hex(), s.opts.GracePeriod, func() {
		s.fireTrigger(s.baseCtx, id)
	})
}

// fireTrigger moves a still-pending accident to active and runs the fan-out.
// The status is checked by the store at this moment, so a cancel that landed
// during the grace period always wins.
func (s *accidentService) fireTrigger(ctx context.Context, id primitive.ObjectID) bool {

	updated, err := s.accidentRepository.ApplyTransition(ctx, id, transitionFor(EventTrigger))
	if err != nil {
		s.logger.Errorw("❌ Deferred trigger failed", "accident_id", id.Hex(), "error", err)
		return false
	}
	if updated == nil {
		s.logger.Infow("⏭️ Countdown elapsed but accident is no longer pending", "accident_id", id.Hex())
		return false
	}

	s.fanOut(ctx, updated)
	return true
}

func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", errs.ErrValidation, lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", errs.ErrValidation, lon)
	}
	return nil
}

func parseID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: accident %s", errs.ErrNotFound, id)
	}
	return objID, nil
}

func nonSpaceLen(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
