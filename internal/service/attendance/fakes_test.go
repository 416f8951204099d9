package attendance

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
)

type fakeAttendanceRepo struct {
	mu        sync.Mutex
	events    map[string]attendance.Event
	seq       int
	companies *fakeCompanyRepo
	now       func() time.Time

	failAttach  bool
	forceCreate error
	attachCalls int
	overrides   int
}

func newFakeAttendanceRepo(companies *fakeCompanyRepo, now func() time.Time) *fakeAttendanceRepo {
	return &fakeAttendanceRepo{events: map[string]attendance.Event{}, companies: companies, now: now}
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, e attendance.Event) (attendance.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forceCreate != nil {
		return attendance.Event{}, r.forceCreate
	}
	for _, existing := range r.events {
		if existing.UserID == e.UserID && existing.Kind == e.Kind &&
			existing.AttendanceDate.Format(attendance.DateLayout) == e.AttendanceDate.Format(attendance.DateLayout) {
			return attendance.Event{}, attendance.ErrDuplicateEvent
		}
	}
	r.seq++
	e.ID = "evt-" + strconv.Itoa(r.seq)
	e.CreatedAt = r.now().Add(time.Duration(r.seq) * time.Second)
	e.UpdatedAt = e.CreatedAt
	r.events[e.ID] = e
	return e, nil
}

func (r *fakeAttendanceRepo) AttachComputedFields(ctx context.Context, id string, distanceM int, isValid bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachCalls++
	if r.failAttach {
		return errors.New("connection reset")
	}
	e, ok := r.events[id]
	if !ok || e.DistanceM != nil {
		return nil
	}
	e.DistanceM = &distanceM
	if e.IsValid == nil {
		e.IsValid = &isValid
	}
	r.events[id] = e
	return nil
}

func (r *fakeAttendanceRepo) join(e attendance.Event) attendance.Event {
	if c, ok := r.companies.items[e.CompanyID]; ok {
		name, loc, radius := c.Name, c.Location, c.ValidRadiusM
		e.CompanyName, e.CompanyLocation, e.CompanyRadiusM = &name, &loc, &radius
	}
	return e
}

func (r *fakeAttendanceRepo) FindByID(ctx context.Context, id string) (attendance.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return attendance.Event{}, attendance.ErrAttendanceNotFound
	}
	return r.join(e), nil
}

func (r *fakeAttendanceRepo) filter(keep func(attendance.Event) bool) []attendance.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]attendance.Event, 0)
	for _, e := range r.events {
		if keep(e) {
			out = append(out, r.join(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeAttendanceRepo) TodayByUser(ctx context.Context, userID string, date time.Time) ([]attendance.Event, error) {
	day := date.Format(attendance.DateLayout)
	return r.filter(func(e attendance.Event) bool {
		return e.UserID == userID && e.AttendanceDate.Format(attendance.DateLayout) == day
	}), nil
}

func (r *fakeAttendanceRepo) ListByUser(ctx context.Context, userID string) ([]attendance.Event, error) {
	return r.filter(func(e attendance.Event) bool { return e.UserID == userID }), nil
}

func (r *fakeAttendanceRepo) ListByCompany(ctx context.Context, companyID string, f attendance.CompanyFilter) ([]attendance.Event, error) {
	return r.filter(func(e attendance.Event) bool {
		if e.CompanyID != companyID {
			return false
		}
		if f.From != nil && e.AttendanceDate.Before(*f.From) {
			return false
		}
		if f.To != nil && !e.AttendanceDate.Before(*f.To) {
			return false
		}
		return true
	}), nil
}

func (r *fakeAttendanceRepo) OverrideValidity(ctx context.Context, id string, isValid bool, actorID string) (*bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, attendance.ErrAttendanceNotFound
	}
	previous := e.IsValid
	e.IsValid = &isValid
	r.events[id] = e
	r.overrides++
	return previous, nil
}

type fakeCompanyRepo struct {
	items map[string]company.Company
}

func (r *fakeCompanyRepo) GetByID(ctx context.Context, id string) (company.Company, error) {
	c, ok := r.items[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

func (r *fakeCompanyRepo) List(ctx context.Context) ([]company.Company, error) { return nil, nil }
func (r *fakeCompanyRepo) Create(ctx context.Context, c company.Company) (company.Company, error) {
	return c, nil
}
func (r *fakeCompanyRepo) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) (company.Company, error) {
	return r.GetByID(ctx, id)
}
func (r *fakeCompanyRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeUserRepo struct {
	user.UserRepository
	items map[string]user.User
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := r.items[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type fakeFileService struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (f *fakeFileService) UploadAttendancePhoto(ctx context.Context, userID string, date time.Time, kind string, photo []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref := "attendance/" + date.Format("2006-01-02") + "/" + userID + "-" + kind + ".jpg"
	f.uploaded = append(f.uploaded, ref)
	return ref, nil
}

func (f *fakeFileService) UploadProfilePhoto(ctx context.Context, userID string, file io.Reader, filename string) (string, error) {
	return "profiles/" + userID + "/" + filename, nil
}

func (f *fakeFileService) DeleteFile(ctx context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ref)
	return nil
}

func (f *fakeFileService) GetFileURL(ref string) string {
	return "http://localhost:8080/uploads/" + ref
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Envelope
}

func (p *recordingPublisher) Publish(ctx context.Context, key string, e events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixedLocator struct {
	coord geo.Coordinate
	ok    bool
}

func (l fixedLocator) Locate([]byte) (geo.Coordinate, bool) { return l.coord, l.ok }

type photoFile struct {
	*bytes.Reader
}

func (photoFile) Close() error { return nil }

func photo() (multipart.File, *multipart.FileHeader) {
	data := []byte("\xff\xd8\xff fake jpeg")
	return photoFile{bytes.NewReader(data)}, &multipart.FileHeader{Filename: "selfie.jpg", Size: int64(len(data))}
}
