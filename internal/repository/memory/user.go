package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, u user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.ErrEmailTaken
		}
	}
	r.s.users[u.ID] = cloneUser(u)
	r.s.userOrder = append(r.s.userOrder, u.ID)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == user.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *UserRepository) UpdateProfile(_ context.Context, id uuid.UUID, upd user.ProfileUpdate) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	u.Name = upd.Name
	u.Location = upd.Location
	u.Availability = upd.Availability
	u.SkillsOffered = cloneStrings(upd.SkillsOffered)
	u.SkillsWanted = cloneStrings(upd.SkillsWanted)
	u.IsPublic = upd.IsPublic
	if upd.ProfilePhoto != nil {
		u.ProfilePhoto = clonePtr(upd.ProfilePhoto)
	}
	u.UpdatedAt = time.Now().UTC()
	r.s.users[id] = u
	return cloneUser(u), nil
}

func (r *UserRepository) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	r.s.users[id] = u
	return nil
}

func (r *UserRepository) ListPublic(_ context.Context, f user.DirectoryFilter) ([]user.User, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	avail := strings.ToLower(strings.TrimSpace(f.Availability))
	if avail == "all" {
		avail = ""
	}

	matched := make([]user.User, 0)
	for _, id := range r.s.userOrder {
		u := r.s.users[id]
		if !u.IsPublic || (f.ExcludeID != uuid.Nil && u.ID == f.ExcludeID) {
			continue
		}
		if search != "" && !matchesSearch(u, search) {
			continue
		}
		if avail != "" && !strings.Contains(strings.ToLower(string(u.Availability)), avail) {
			continue
		}
		matched = append(matched, u)
	}
	slices.SortStableFunc(matched, func(a, b user.User) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})

	total := len(matched)
	start := total
	if offset, ok := f.Offset(); ok {
		start = min(offset, total)
	}
	end := total
	if f.Limit > 0 && f.Limit < total-start {
		end = start + f.Limit
	}

	out := make([]user.User, 0, end-start)
	for _, u := range matched[start:end] {
		out = append(out, cloneUser(u))
	}
	return out, total, nil
}

func matchesSearch(u user.User, needle string) bool {
	if strings.Contains(strings.ToLower(u.Name), needle) {
		return true
	}
	for _, s := range u.SkillsOffered {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	for _, s := range u.SkillsWanted {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}
