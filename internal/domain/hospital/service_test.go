package hospital

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicompare/medicompare/internal/platform/auth"
	"github.com/medicompare/medicompare/internal/platform/blobstore"
	"github.com/medicompare/medicompare/pkg/pagination"
)

type mockRepo struct {
	byID      map[uuid.UUID]*Hospital
	createErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: map[uuid.UUID]*Hospital{}}
}

func (m *mockRepo) add(h *Hospital) *Hospital {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	m.byID[h.ID] = h
	return h
}

func (m *mockRepo) Create(_ context.Context, h *Hospital) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.byID {
		if existing.Email == h.Email || existing.UserID == h.UserID {
			return ErrDuplicate
		}
	}
	m.add(h)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Hospital, error) {
	if h, ok := m.byID[id]; ok {
		return h, nil
	}
	return nil, ErrNotFound
}

func (m *mockRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*Hospital, error) {
	for _, h := range m.byID {
		if h.UserID == userID {
			return h, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*Hospital, error) {
	for _, h := range m.byID {
		if h.Email == email {
			return h, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string, reason *string) error {
	h, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	h.Status = status
	h.RejectionReason = reason
	return nil
}

func (m *mockRepo) ListPending(_ context.Context, p pagination.Params) ([]PendingHospital, int, error) {
	var out []PendingHospital
	for _, h := range m.byID {
		if h.Status == StatusPending {
			out = append(out, PendingHospital{Hospital: *h})
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) ListVerifiedLocations(_ context.Context) ([]Location, error) {
	var out []Location
	for _, h := range m.byID {
		if h.Status == StatusVerified && h.IsActive {
			out = append(out, Location{ID: h.ID, Name: h.Name, Lng: h.Longitude, Lat: h.Latitude})
		}
	}
	return out, nil
}

type mockAccounts struct {
	calls   int
	failErr error
	lastRole string
}

func (m *mockAccounts) CreateAccount(_ context.Context, _, _, _, _, role string) (uuid.UUID, error) {
	m.calls++
	m.lastRole = role
	if m.failErr != nil {
		return uuid.Nil, m.failErr
	}
	return uuid.New(), nil
}

func newTestService(repo Repository, accounts AccountCreator, docs blobstore.DocumentStore) *Service {
	if docs == nil {
		docs = blobstore.NewInMemoryStore()
	}
	return NewService(repo, accounts, docs, nil, zerolog.Nop())
}

func validInput() RegisterInput {
	return RegisterInput{
		HospitalName:        "City Care",
		Email:               "City@Example.com",
		Password:            "pw123456",
		Phone:               "9876543210",
		Address:             "12 MG Road",
		Longitude:           77.59,
		Latitude:            12.97,
		DocumentName:        "license.pdf",
		DocumentContentType: "application/pdf",
		Document:            strings.NewReader("%PDF-1.4 fake"),
	}
}

func TestRegisterCreatesPendingHospital(t *testing.T) {
	repo := newMockRepo()
	accounts := &mockAccounts{}
	docs := blobstore.NewInMemoryStore()
	svc := newTestService(repo, accounts, docs)

	h, err := svc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if h.Status != StatusPending {
		t.Errorf("status = %q, want PENDING", h.Status)
	}
	if h.Email != "city@example.com" {
		t.Errorf("email not normalized: %q", h.Email)
	}
	if h.UserID == uuid.Nil {
		t.Error("hospital not linked to an owner account")
	}
	if accounts.lastRole != auth.RoleHospital {
		t.Errorf("account role = %q, want HOSPITAL", accounts.lastRole)
	}
	if h.DocumentID == "" {
		t.Error("document was not stored")
	}
	if _, err := docs.GetMetadata(context.Background(), h.DocumentID); err != nil {
		t.Errorf("stored document not retrievable: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockAccounts{}, nil)

	mutations := []func(*RegisterInput){
		func(in *RegisterInput) { in.HospitalName = " " },
		func(in *RegisterInput) { in.Email = "" },
		func(in *RegisterInput) { in.Password = "" },
		func(in *RegisterInput) { in.Phone = "" },
		func(in *RegisterInput) { in.Address = "" },
		func(in *RegisterInput) { in.Document = nil },
	}
	for i, mutate := range mutations {
		in := validInput()
		mutate(&in)
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrValidation) {
			t.Errorf("case %d: err = %v, want ErrValidation", i, err)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMockRepo()
	repo.add(&Hospital{UserID: uuid.New(), Email: "city@example.com", Status: StatusPending})
	accounts := &mockAccounts{}
	svc := newTestService(repo, accounts, nil)

	_, err := svc.Register(context.Background(), validInput())
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	if accounts.calls != 0 {
		t.Errorf("account creation attempted %d times for duplicate email", accounts.calls)
	}
}

func TestRegisterRejectsBadDocument(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockAccounts{}, nil)

	in := validInput()
	in.DocumentContentType = "application/zip"
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, blobstore.ErrInvalidContentType) {
		t.Fatalf("err = %v, want ErrInvalidContentType", err)
	}
}

// recordingStore wraps the in-memory store and tracks upload ids.
type recordingStore struct {
	*blobstore.InMemoryStore
	uploaded []string
}

func (r *recordingStore) Upload(ctx context.Context, meta blobstore.DocumentMetadata, content io.Reader) (*blobstore.DocumentMetadata, error) {
	out, err := r.InMemoryStore.Upload(ctx, meta, content)
	if err == nil {
		r.uploaded = append(r.uploaded, out.ID)
	}
	return out, err
}

func TestRegisterCleansUpDocumentOnFailure(t *testing.T) {
	repo := newMockRepo()
	accounts := &mockAccounts{failErr: errors.New("account insert failed")}
	docs := &recordingStore{InMemoryStore: blobstore.NewInMemoryStore()}
	svc := newTestService(repo, accounts, docs)

	h, err := svc.Register(context.Background(), validInput())
	if err == nil {
		t.Fatalf("expected failure, got hospital %+v", h)
	}
	if len(repo.byID) != 0 {
		t.Error("hospital row created despite account failure")
	}
	if len(docs.uploaded) != 1 {
		t.Fatalf("uploads = %d, want 1", len(docs.uploaded))
	}
	if _, err := docs.GetMetadata(context.Background(), docs.uploaded[0]); !errors.Is(err, blobstore.ErrDocumentNotFound) {
		t.Errorf("document still stored after failed onboarding, err = %v", err)
	}
}

func TestIsVerified(t *testing.T) {
	repo := newMockRepo()
	verifiedOwner := uuid.New()
	pendingOwner := uuid.New()
	repo.add(&Hospital{UserID: verifiedOwner, Email: "a@x.com", Status: StatusVerified})
	repo.add(&Hospital{UserID: pendingOwner, Email: "b@x.com", Status: StatusPending})
	svc := newTestService(repo, &mockAccounts{}, nil)

	cases := []struct {
		name  string
		owner uuid.UUID
		want  bool
	}{
		{"verified owner", verifiedOwner, true},
		{"pending owner", pendingOwner, false},
		{"unknown owner", uuid.New(), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.IsVerified(context.Background(), tc.owner)
			if err != nil {
				t.Fatalf("IsVerified: %v", err)
			}
			if got != tc.want {
				t.Errorf("IsVerified = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLocationsOnlyVerifiedActive(t *testing.T) {
	repo := newMockRepo()
	repo.add(&Hospital{UserID: uuid.New(), Name: "Verified", Email: "v@x.com", Status: StatusVerified, IsActive: true})
	repo.add(&Hospital{UserID: uuid.New(), Name: "Pending", Email: "p@x.com", Status: StatusPending, IsActive: true})
	repo.add(&Hospital{UserID: uuid.New(), Name: "Inactive", Email: "i@x.com", Status: StatusVerified, IsActive: false})
	svc := newTestService(repo, &mockAccounts{}, nil)

	locations, err := svc.Locations(context.Background())
	if err != nil {
		t.Fatalf("Locations: %v", err)
	}
	if len(locations) != 1 || locations[0].Name != "Verified" {
		t.Errorf("locations = %+v, want only the verified active hospital", locations)
	}
}
