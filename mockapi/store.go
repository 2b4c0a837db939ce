package mockapi

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/AleksandrSamusev/user-api-contract-tests/servicedef"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	errNotFound   = errors.New("user not found")
	errEmailTaken = errors.New("email already in use")
)

// sortFields maps the sortBy values the service accepts to the property they sort on.
var sortFields = map[string]func(servicedef.User) string{
	"firstName":   func(u servicedef.User) string { return u.FirstName },
	"lastName":    func(u servicedef.User) string { return u.LastName },
	"email":       func(u servicedef.User) string { return u.Email },
	"phoneNumber": func(u servicedef.User) string { return u.PhoneNumber },
}

// store is an in-memory user table. Listing returns users in creation order unless a sort is
// requested.
type store struct {
	users map[string]servicedef.User
	order []string
	lock  sync.RWMutex
}

func newStore() *store {
	return &store{users: make(map[string]servicedef.User)}
}

func (s *store) create(body map[string]interface{}) (servicedef.User, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	u := toUser(uuid.NewString(), body)
	if s.emailTaken(u.Email, "") {
		return servicedef.User{}, errEmailTaken
	}
	s.users[u.ID] = u
	s.order = append(s.order, u.ID)
	return u, nil
}

func (s *store) get(id string) (servicedef.User, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// update replaces the stored user with the already merged and validated body.
func (s *store) update(id string, body map[string]interface{}) (servicedef.User, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.users[id]; !ok {
		return servicedef.User{}, errNotFound
	}
	u := toUser(id, body)
	if s.emailTaken(u.Email, id) {
		return servicedef.User{}, errEmailTaken
	}
	s.users[id] = u
	return u, nil
}

func (s *store) delete(id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	delete(s.users, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// list returns every user. sortBy names a property, optionally prefixed with "-" for
// descending order; it must already have been checked with validSortBy.
func (s *store) list(sortBy string) []servicedef.User {
	s.lock.RLock()
	ret := make([]servicedef.User, 0, len(s.order))
	for _, id := range s.order {
		ret = append(ret, s.users[id])
	}
	s.lock.RUnlock()

	if sortBy == "" {
		return ret
	}
	desc := strings.HasPrefix(sortBy, "-")
	key := sortFields[strings.TrimPrefix(sortBy, "-")]
	c := collate.New(language.Und, collate.Numeric)
	sort.SliceStable(ret, func(i, j int) bool {
		if desc {
			return c.CompareString(key(ret[j]), key(ret[i])) < 0
		}
		return c.CompareString(key(ret[i]), key(ret[j])) < 0
	})
	return ret
}

func validSortBy(sortBy string) bool {
	_, ok := sortFields[strings.TrimPrefix(sortBy, "-")]
	return ok
}

// emailTaken must be called with the lock held.
func (s *store) emailTaken(email, exceptID string) bool {
	for id, u := range s.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}
