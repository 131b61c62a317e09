package memory

import (
	"context"
	"fmt"

	"github.com/bistrosoft/orders/internal/domain"
)

type userRepository struct {
	access
}

func (r *userRepository) Create(_ context.Context, user domain.User) error {
	st, done := r.write()
	defer done()

	for _, existing := range st.users {
		if existing.Email.Equal(user.Email) {
			return fmt.Errorf("%w: a user with email %q already exists",
				domain.ErrValidation, user.Email.String())
		}
	}

	st.users[user.ID] = user
	return nil
}

func (r *userRepository) GetByEmail(_ context.Context, email domain.Email) (domain.User, error) {
	st, done := r.read()
	defer done()

	for _, user := range st.users {
		if user.Email.Equal(email) {
			return user, nil
		}
	}
	return domain.User{}, fmt.Errorf("%w: user with email %q not found",
		domain.ErrNotFound, email.String())
}

var _ domain.UserRepository = (*userRepository)(nil)
