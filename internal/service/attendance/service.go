package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	companyRepo company.CompanyRepository
	userRepo    user.UserRepository
	fileService file.FileService
	resolver    *geo.Resolver
	publisher   events.Publisher
	translator  *i18n.Translator
	loc         *time.Location
	now         func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	companyRepo company.CompanyRepository,
	userRepo user.UserRepository,
	fileService file.FileService,
	resolver *geo.Resolver,
	publisher events.Publisher,
	translator *i18n.Translator,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		companyRepo:          companyRepo,
		userRepo:             userRepo,
		fileService:          fileService,
		resolver:             resolver,
		publisher:            publisher,
		translator:           translator,
		loc:                  loc,
		now:                  time.Now,
	}
}

// today is the current calendar day in the deployment timezone.
func (a *AttendanceServiceImpl) today() time.Time {
	now := a.now().In(a.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.loc)
}

func (a *AttendanceServiceImpl) photoURL(ref string) string {
	return a.fileService.GetFileURL(ref)
}

// Submit implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Submit(ctx context.Context, req attendance.SubmitRequest) (attendance.SubmitResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SubmitResponse{}, err
	}
	kind := attendance.Kind(req.Kind)

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.SubmitResponse{}, err
	}
	if actor.CompanyID == nil {
		return attendance.SubmitResponse{}, user.ErrCompanyIDRequired
	}

	day := a.today()
	if err := a.guard(ctx, actor.UserID, day, kind); err != nil {
		metrics.RecordRejectedSubmission(string(kind))
		return attendance.SubmitResponse{}, err
	}

	photo, err := io.ReadAll(io.LimitReader(req.File, attendance.MaxPhotoSize+1))
	if err != nil {
		return attendance.SubmitResponse{}, fmt.Errorf("failed to read attendance photo: %w", err)
	}
	if len(photo) > attendance.MaxPhotoSize {
		return attendance.SubmitResponse{}, user.ErrFileTooLarge
	}

	// Location must be read before the photo is re-encoded.
	resolution, err := a.resolver.Resolve(photo, req.Backup())
	if err != nil {
		metrics.RecordRejectedSubmission(string(kind))
		return attendance.SubmitResponse{}, err
	}

	geofence, err := a.companyRepo.GetByID(ctx, *actor.CompanyID)
	if err != nil {
		return attendance.SubmitResponse{}, err
	}

	photoRef, err := a.fileService.UploadAttendancePhoto(ctx, actor.UserID, day, string(kind), photo)
	if err != nil {
		return attendance.SubmitResponse{}, err
	}

	// The create+attach unit must survive a client disconnect.
	writeCtx := context.WithoutCancel(ctx)

	event, err := a.AttendanceRepository.Create(writeCtx, attendance.Event{
		UserID:         actor.UserID,
		CompanyID:      geofence.ID,
		Kind:           kind,
		PhotoRef:       photoRef,
		Location:       resolution.Coordinate,
		LocationSource: resolution.Source,
		AttendanceDate: day,
	})
	if err != nil {
		if delErr := a.fileService.DeleteFile(writeCtx, photoRef); delErr != nil {
			slog.WarnContext(ctx, "failed to remove orphaned attendance photo", "photo_ref", photoRef, "error", delErr)
		}
		if errors.Is(err, attendance.ErrDuplicateEvent) {
			metrics.RecordRejectedSubmission(string(kind))
			return attendance.SubmitResponse{}, duplicateConflict(kind)
		}
		return attendance.SubmitResponse{}, err
	}

	distance, valid := geofence.Evaluate(resolution.Coordinate)
	if err := a.AttendanceRepository.AttachComputedFields(writeCtx, event.ID, distance, valid); err != nil {
		// The event is stored; readers recompute it as pending.
		slog.WarnContext(ctx, "failed to attach computed fields, event left pending",
			"attendance_id", event.ID,
			"error", err,
		)
	}
	event.DistanceM = &distance
	event.IsValid = &valid
	event.CompanyName = &geofence.Name
	event.CompanyLocation = &geofence.Location
	event.CompanyRadiusM = &geofence.ValidRadiusM

	metrics.RecordSubmission(string(kind), string(resolution.Source), distance, valid)
	a.publish(writeCtx, actor.UserID, events.TypeAttendanceRecorded, events.AttendanceRecorded{
		AttendanceID:   event.ID,
		UserID:         event.UserID,
		CompanyID:      event.CompanyID,
		Kind:           string(kind),
		Latitude:       resolution.Coordinate.Latitude,
		Longitude:      resolution.Coordinate.Longitude,
		LocationSource: string(resolution.Source),
		DistanceM:      distance,
		IsValid:        valid,
		AttendanceDate: day.Format(attendance.DateLayout),
		RecordedAt:     event.CreatedAt,
	})

	messageID := fmt.Sprintf("attendance.%s.valid", kind)
	if !valid {
		messageID = fmt.Sprintf("attendance.%s.outside_radius", kind)
	}

	return attendance.SubmitResponse{
		Message: a.translator.T(ctx, messageID, map[string]any{
			"Distance": distance,
			"Radius":   geofence.ValidRadiusM,
		}),
		Attendance: attendance.NewAttendanceResponse(event, a.loc, a.photoURL),
		Location: attendance.ResolvedLocation{
			Latitude:  resolution.Coordinate.Latitude,
			Longitude: resolution.Coordinate.Longitude,
			Source:    resolution.Source,
		},
		CompanyLocation: geofence.Location,
		DistanceM:       distance,
		ValidRadiusM:    geofence.ValidRadiusM,
		IsValid:         valid,
	}, nil
}

// ListMine implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListMine(ctx context.Context) ([]attendance.AttendanceResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	list, err := a.AttendanceRepository.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	a.settlePending(ctx, list)

	responses := make([]attendance.AttendanceResponse, 0, len(list))
	for _, e := range list {
		responses = append(responses, attendance.NewAttendanceResponse(e, a.loc, a.photoURL))
	}
	return responses, nil
}

// TodayMine implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) TodayMine(ctx context.Context) (attendance.TodayResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.TodayResponse{}, err
	}
	return a.todayFor(ctx, actor.UserID)
}

// HistoryMine implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) HistoryMine(ctx context.Context) ([]attendance.HistoryDayResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return a.historyFor(ctx, actor.UserID)
}

// TodayByUser implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) TodayByUser(ctx context.Context, userID string) (attendance.TodayResponse, error) {
	if err := a.authorizeUser(ctx, userID); err != nil {
		return attendance.TodayResponse{}, err
	}
	return a.todayFor(ctx, userID)
}

// HistoryByUser implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) HistoryByUser(ctx context.Context, userID string) ([]attendance.HistoryDayResponse, error) {
	if err := a.authorizeUser(ctx, userID); err != nil {
		return nil, err
	}
	return a.historyFor(ctx, userID)
}

// ListByCompany implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListByCompany(ctx context.Context, companyID string, req attendance.CompanyAttendanceRequest) ([]attendance.CompanyAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessCompany(companyID) {
		return nil, user.ErrCompanyScope
	}
	if _, err := a.companyRepo.GetByID(ctx, companyID); err != nil {
		return nil, err
	}

	var filter attendance.CompanyFilter
	if from, to, ok := attendance.Period(req.Period).Range(a.now().In(a.loc)); ok {
		filter.From, filter.To = &from, &to
	}

	list, err := a.AttendanceRepository.ListByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	a.settlePending(ctx, list)

	responses := make([]attendance.CompanyAttendanceResponse, 0, len(list))
	for _, e := range list {
		resp := attendance.CompanyAttendanceResponse{
			AttendanceResponse: attendance.NewAttendanceResponse(e, a.loc, a.photoURL),
		}
		if e.UserPhotoRef != nil {
			url := a.photoURL(*e.UserPhotoRef)
			resp.UserPhotoURL = &url
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// OverrideValidity implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) OverrideValidity(ctx context.Context, id string, req attendance.ValidateRequest) (attendance.ValidateResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ValidateResponse{}, err
	}
	isValid := *req.IsValid

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.ValidateResponse{}, err
	}

	event, err := a.AttendanceRepository.FindByID(ctx, id)
	if err != nil {
		return attendance.ValidateResponse{}, err
	}
	if !actor.CanAccessCompany(event.CompanyID) {
		return attendance.ValidateResponse{}, user.ErrCompanyScope
	}

	previous, err := a.AttendanceRepository.OverrideValidity(ctx, id, isValid, actor.UserID)
	if err != nil {
		return attendance.ValidateResponse{}, err
	}

	slog.InfoContext(ctx, "administrative action",
		"action", "attendance.override_validity",
		"actor_id", actor.UserID,
		"attendance_id", id,
		"company_id", event.CompanyID,
		"previous_is_valid", previous,
		"is_valid", isValid,
	)
	metrics.RecordValidityOverride(isValid)
	a.publish(context.WithoutCancel(ctx), event.UserID, events.TypeAttendanceValidityOverride, events.ValidityOverridden{
		AttendanceID:  id,
		CompanyID:     event.CompanyID,
		ActorID:       actor.UserID,
		PreviousValid: previous,
		IsValid:       isValid,
		OverriddenAt:  a.now().UTC(),
	})

	messageID := "attendance.validated"
	if !isValid {
		messageID = "attendance.rejected"
	}
	return attendance.ValidateResponse{
		Message:  a.translator.T(ctx, messageID),
		ID:       id,
		IsValid:  isValid,
		Previous: previous,
	}, nil
}

func (a *AttendanceServiceImpl) todayFor(ctx context.Context, userID string) (attendance.TodayResponse, error) {
	day := a.today()
	list, err := a.AttendanceRepository.TodayByUser(ctx, userID, day)
	if err != nil {
		return attendance.TodayResponse{}, err
	}
	if len(list) == 0 {
		return attendance.TodayResponse{}, attendance.ErrAttendanceNotFound
	}
	a.settlePending(ctx, list)

	return attendance.NewTodayResponse(attendance.NewDay(day, list), a.loc, a.photoURL), nil
}

func (a *AttendanceServiceImpl) historyFor(ctx context.Context, userID string) ([]attendance.HistoryDayResponse, error) {
	list, err := a.AttendanceRepository.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	a.settlePending(ctx, list)

	days := attendance.GroupByDay(list)
	responses := make([]attendance.HistoryDayResponse, 0, len(days))
	for _, d := range days {
		responses = append(responses, attendance.NewHistoryDayResponse(d, a.loc, a.photoURL))
	}
	return responses, nil
}

// authorizeUser allows admins anywhere and HR within their own company.
func (a *AttendanceServiceImpl) authorizeUser(ctx context.Context, userID string) error {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	if actor.IsAdmin() {
		return nil
	}

	target, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if target.CompanyID == nil || !actor.CanAccessCompany(*target.CompanyID) {
		return user.ErrCompanyScope
	}
	return nil
}

// settlePending recomputes events whose computed fields never landed. The
// computation is a pure function of stored coordinates, so repeating it is
// harmless.
func (a *AttendanceServiceImpl) settlePending(ctx context.Context, list []attendance.Event) {
	for i := range list {
		e := &list[i]
		if !e.IsPending() || e.CompanyLocation == nil || e.CompanyRadiusM == nil {
			continue
		}

		geofence := company.Company{Location: *e.CompanyLocation, ValidRadiusM: *e.CompanyRadiusM}
		distance, valid := geofence.Evaluate(e.Location)
		if err := a.AttendanceRepository.AttachComputedFields(ctx, e.ID, distance, valid); err != nil {
			slog.WarnContext(ctx, "failed to settle pending attendance", "attendance_id", e.ID, "error", err)
			continue
		}

		e.DistanceM = &distance
		if e.IsValid == nil {
			e.IsValid = &valid
		}
	}
}

func (a *AttendanceServiceImpl) publish(ctx context.Context, key, eventType string, payload any) {
	err := a.publisher.Publish(ctx, key, events.Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: a.now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to publish event", "type", eventType, "error", err)
	}
}
