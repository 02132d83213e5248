package api

import (
	"github.com/crestlinehq/crestline/internal/models"
	"github.com/crestlinehq/crestline/internal/services"
)

type authStoreAdapter struct {
	store Store
}

func newAuthStoreAdapter(store Store) services.AuthStore {
	return &authStoreAdapter{store: store}
}

func (a *authStoreAdapter) FindUserByEmail(email string) (*models.User, error) {
	u := a.store.FindUserByEmail(email)
	if u == nil {
		return nil, nil
	}
	return &models.User{ID: u.ID, Email: u.Email, Name: u.Name, PassHash: u.PassHash, Admin: u.Admin, CreatedAt: u.CreatedAt}, nil
}

func (a *authStoreAdapter) AddUser(u *models.User) error {
	if u == nil {
		return services.NewInvalidError("user required")
	}
	a.store.AddUser(&User{ID: u.ID, Email: u.Email, Name: u.Name, PassHash: u.PassHash, Admin: u.Admin, CreatedAt: u.CreatedAt})
	return nil
}

var _ services.AuthStore = (*authStoreAdapter)(nil)
