package services

import (
	"context"
	"time"

	"github.com/A-Malek-CH/Code4Pal-final-submission/auth"
	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
)

// In-memory fakes backing the service tests. Each fake honors the sentinel
// error contract of its interface; a forced error field simulates store
// failures.

type fakeTx struct {
	ctx        context.Context
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit() error            { t.committed = true; return nil }
func (t *fakeTx) Rollback() error          { t.rolledBack = true; return nil }
func (t *fakeTx) Context() context.Context { return t.ctx }

type fakeTxManager struct {
	lastTx *fakeTx
}

func (m *fakeTxManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	m.lastTx = &fakeTx{ctx: ctx}
	return m.lastTx, nil
}

func (m *fakeTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type fakeUserRepo struct {
	nextID    int64
	users     map[int64]*models.User
	forcedErr error
	lastPatch map[string]interface{}
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if r.forcedErr != nil {
		return r.forcedErr
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicateKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	copy := *user
	r.users[user.ID] = &copy
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	for _, user := range r.users {
		if user.Email == email {
			copy := *user
			return &copy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == repositories.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*models.User, error) {
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	out := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		copy := *user
		out = append(out, &copy)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, id int64, patch map[string]interface{}) (*models.User, error) {
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	r.lastPatch = patch
	if v, ok := patch["first_name"].(string); ok {
		user.FirstName = &v
	}
	if v, ok := patch["user_type"].(string); ok {
		user.UserType = models.UserType(v)
	}
	copy := *user
	return &copy, nil
}

func (r *fakeUserRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) MarkEmailVerified(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			user.IsEmailVerified = true
			user.UserType = models.UserTypeRegistered
			copy := *user
			return &copy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) WithTx(tx repositories.Transaction) repositories.UserRepository { return r }

type fakeContributorRepo struct {
	nextID       int64
	contributors map[int64]*models.Contributor
	forcedErr    error
	lastPatch    map[string]interface{}
}

func newFakeContributorRepo() *fakeContributorRepo {
	return &fakeContributorRepo{contributors: make(map[int64]*models.Contributor)}
}

func (r *fakeContributorRepo) Create(ctx context.Context, c *models.Contributor) error {
	if r.forcedErr != nil {
		return r.forcedErr
	}
	for _, existing := range r.contributors {
		if existing.UserID == c.UserID {
			return repositories.ErrDuplicateKey
		}
	}
	r.nextID++
	c.ID = r.nextID
	copy := *c
	r.contributors[c.ID] = &copy
	return nil
}

func (r *fakeContributorRepo) GetByID(ctx context.Context, id int64) (*models.Contributor, error) {
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	c, ok := r.contributors[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copy := *c
	return &copy, nil
}

func (r *fakeContributorRepo) GetByUserID(ctx context.Context, userID int64) (*models.Contributor, error) {
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	for _, c := range r.contributors {
		if c.UserID == userID {
			copy := *c
			return &copy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeContributorRepo) List(ctx context.Context) ([]*models.Contributor, error) {
	out := make([]*models.Contributor, 0, len(r.contributors))
	for _, c := range r.contributors {
		copy := *c
		out = append(out, &copy)
	}
	return out, nil
}

func (r *fakeContributorRepo) Update(ctx context.Context, id int64, patch map[string]interface{}) (*models.Contributor, error) {
	c, ok := r.contributors[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	r.lastPatch = patch
	if v, ok := patch["motivation"].(string); ok {
		c.Motivation = &v
	}
	copy := *c
	return &copy, nil
}

func (r *fakeContributorRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	c, ok := r.contributors[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.PasswordHash = hash
	return nil
}

func (r *fakeContributorRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.contributors[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.contributors, id)
	return nil
}

func (r *fakeContributorRepo) WithTx(tx repositories.Transaction) repositories.ContributorRepository {
	return r
}

type fakeAdminRepo struct {
	admins    map[int64]*models.Admin
	forcedErr error
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[int64]*models.Admin)}
}

func (r *fakeAdminRepo) GetActiveByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	for _, admin := range r.admins {
		if admin.Email == email && admin.IsActive {
			copy := *admin
			return &copy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeAdminRepo) GetActiveByID(ctx context.Context, id int64) (*models.Admin, error) {
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	admin, ok := r.admins[id]
	if !ok || !admin.IsActive {
		return nil, repositories.ErrNotFound
	}
	copy := *admin
	return &copy, nil
}

func (r *fakeAdminRepo) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	admin, ok := r.admins[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copy := *admin
	return &copy, nil
}

func (r *fakeAdminRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	admin, ok := r.admins[id]
	if !ok {
		return repositories.ErrNotFound
	}
	admin.LastLogin = &at
	return nil
}

func (r *fakeAdminRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	admin, ok := r.admins[id]
	if !ok {
		return repositories.ErrNotFound
	}
	admin.PasswordHash = hash
	return nil
}

func (r *fakeAdminRepo) WithTx(tx repositories.Transaction) repositories.AdminRepository { return r }

// fakeRefreshRepo keeps admin rows apart from user/contributor rows the way
// the real store keeps two tables.
type fakeRefreshRepo struct {
	nextID    int64
	rows      []*models.RefreshToken
	forcedErr error
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{}
}

func inAdminCollection(row *models.RefreshToken) bool {
	return row.AdminID != nil
}

func (r *fakeRefreshRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	if r.forcedErr != nil {
		return r.forcedErr
	}
	r.nextID++
	token.ID = r.nextID
	token.CreatedAt = time.Now()
	copy := *token
	r.rows = append(r.rows, &copy)
	return nil
}

func (r *fakeRefreshRepo) FindActive(ctx context.Context, kind auth.PrincipalKind, tokenHash string, now time.Time) (*models.RefreshToken, error) {
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	wantAdmin := kind == auth.KindAdmin
	for _, row := range r.rows {
		if inAdminCollection(row) != wantAdmin {
			continue
		}
		if row.TokenHash == tokenHash && row.IsActive && row.ExpiresAt.After(now) {
			copy := *row
			return &copy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeRefreshRepo) Deactivate(ctx context.Context, kind auth.PrincipalKind, tokenHash string) error {
	if r.forcedErr != nil {
		return r.forcedErr
	}
	wantAdmin := kind == auth.KindAdmin
	for _, row := range r.rows {
		if inAdminCollection(row) == wantAdmin && row.TokenHash == tokenHash {
			row.IsActive = false
		}
	}
	return nil
}

func (r *fakeRefreshRepo) DeactivateAllFor(ctx context.Context, ref auth.PrincipalRef) error {
	if r.forcedErr != nil {
		return r.forcedErr
	}
	for _, row := range r.rows {
		switch ref.Kind {
		case auth.KindAdmin:
			if row.AdminID != nil && *row.AdminID == ref.ID {
				row.IsActive = false
			}
		case auth.KindContributor:
			if row.ContributorID != nil && *row.ContributorID == ref.ID {
				row.IsActive = false
			}
		default:
			if row.UserID != nil && *row.UserID == ref.ID {
				row.IsActive = false
			}
		}
	}
	return nil
}

func (r *fakeRefreshRepo) activeCount() int {
	n := 0
	for _, row := range r.rows {
		if row.IsActive {
			n++
		}
	}
	return n
}

func (r *fakeRefreshRepo) WithTx(tx repositories.Transaction) repositories.RefreshTokenRepository {
	return r
}

type fakeVerificationRepo struct {
	nextID    int64
	rows      []*models.EmailVerification
	forcedErr error
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{}
}

func (r *fakeVerificationRepo) Create(ctx context.Context, v *models.EmailVerification) error {
	if r.forcedErr != nil {
		return r.forcedErr
	}
	r.nextID++
	v.ID = r.nextID
	v.CreatedAt = time.Now()
	copy := *v
	r.rows = append(r.rows, &copy)
	return nil
}

func (r *fakeVerificationRepo) GetLatestByEmail(ctx context.Context, email string) (*models.EmailVerification, error) {
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	var latest *models.EmailVerification
	for _, row := range r.rows {
		if row.Email != email {
			continue
		}
		if latest == nil || row.ExpiresAt.After(latest.ExpiresAt) {
			latest = row
		}
	}
	if latest == nil {
		return nil, repositories.ErrNotFound
	}
	copy := *latest
	return &copy, nil
}

func (r *fakeVerificationRepo) MarkVerified(ctx context.Context, id int64) error {
	for _, row := range r.rows {
		if row.ID == id {
			row.Verified = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakeLocationRepo struct {
	nextID        int64
	locations     map[int64]*models.Location
	verifications map[int64]*models.LocationVerification
	forcedErr     error
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{
		locations:     make(map[int64]*models.Location),
		verifications: make(map[int64]*models.LocationVerification),
	}
}

func (r *fakeLocationRepo) Create(ctx context.Context, l *models.Location) error {
	if r.forcedErr != nil {
		return r.forcedErr
	}
	r.nextID++
	l.ID = r.nextID
	copy := *l
	r.locations[l.ID] = &copy
	return nil
}

func (r *fakeLocationRepo) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	l, ok := r.locations[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copy := *l
	return &copy, nil
}

func (r *fakeLocationRepo) List(ctx context.Context) ([]*models.Location, error) {
	out := make([]*models.Location, 0, len(r.locations))
	for _, l := range r.locations {
		copy := *l
		out = append(out, &copy)
	}
	return out, nil
}

func (r *fakeLocationRepo) Update(ctx context.Context, id int64, patch map[string]interface{}) (*models.Location, error) {
	l, ok := r.locations[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if v, ok := patch["name"].(string); ok {
		l.Name = v
	}
	copy := *l
	return &copy, nil
}

func (r *fakeLocationRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.locations[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.locations, id)
	return nil
}

func (r *fakeLocationRepo) CreateVerification(ctx context.Context, v *models.LocationVerification) error {
	if r.forcedErr != nil {
		return r.forcedErr
	}
	copy := *v
	r.verifications[v.LocationID] = &copy
	return nil
}

func (r *fakeLocationRepo) UpdateVerification(ctx context.Context, locationID int64, status models.LocationStatus, adminID int64) (*models.LocationVerification, error) {
	v, ok := r.verifications[locationID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	v.Status = status
	v.VerifiedBy = &adminID
	copy := *v
	return &copy, nil
}

func (r *fakeLocationRepo) WithTx(tx repositories.Transaction) repositories.LocationRepository {
	return r
}

type fakeEmergencyRepo struct {
	nextID      int64
	emergencies map[int64]*models.Emergency
	forcedErr   error
}

func newFakeEmergencyRepo() *fakeEmergencyRepo {
	return &fakeEmergencyRepo{emergencies: make(map[int64]*models.Emergency)}
}

func (r *fakeEmergencyRepo) Create(ctx context.Context, e *models.Emergency) error {
	if r.forcedErr != nil {
		return r.forcedErr
	}
	r.nextID++
	e.ID = r.nextID
	copy := *e
	r.emergencies[e.ID] = &copy
	return nil
}

func (r *fakeEmergencyRepo) GetByID(ctx context.Context, id int64) (*models.Emergency, error) {
	e, ok := r.emergencies[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copy := *e
	return &copy, nil
}

func (r *fakeEmergencyRepo) List(ctx context.Context) ([]*models.Emergency, error) {
	out := make([]*models.Emergency, 0, len(r.emergencies))
	for _, e := range r.emergencies {
		copy := *e
		out = append(out, &copy)
	}
	return out, nil
}

func (r *fakeEmergencyRepo) Update(ctx context.Context, id int64, patch map[string]interface{}) (*models.Emergency, error) {
	e, ok := r.emergencies[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if v, ok := patch["status"].(string); ok {
		e.Status = v
	}
	copy := *e
	return &copy, nil
}

func (r *fakeEmergencyRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.emergencies[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.emergencies, id)
	return nil
}

type fakeMailer struct {
	sent    []string
	lastTo  string
	failErr error
}

func (m *fakeMailer) SendVerificationCode(to, code string) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.lastTo = to
	m.sent = append(m.sent, code)
	return nil
}
