package tui

import (
	"context"
	"errors"

	"github.com/brizzai/hotel-console/internal/authapi"
	"github.com/brizzai/hotel-console/internal/session"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func newEditProfilePage(id int, store *session.Store, account ProfileEditor) CreatePage {
	page := CreatePage{
		id:    id,
		title: "Edit Profile",
		form: newForm(
			field{label: "Email *"},
			field{label: "Username *"},
			field{label: "Full name"},
			field{label: "Phone number"},
			field{label: "City"},
		),
		required:    []int{0, 1},
		done:        ViewProfile,
		savedFormat: "Updated %s",
		submit: func(ctx context.Context, v []string) (string, error) {
			if validate.Var(v[0], "email") != nil {
				return "", errors.New("email is not valid")
			}
			token := store.GetState().AccessToken
			err := account.UpdateProfile(ctx, token, authapi.ProfileUpdate{
				Email:       v[0],
				Username:    v[1],
				FullName:    v[2],
				PhoneNumber: v[3],
				City:        v[4],
			})
			if err != nil {
				return "", err
			}
			if err := store.Refresh(ctx); err != nil {
				return "", err
			}
			return "profile", nil
		},
	}

	if p := store.GetState().CurrentUser; p != nil {
		u := p.Update()
		for i, v := range []string{u.Email, u.Username, u.FullName, u.PhoneNumber, u.City} {
			page.form.SetValue(i, v)
		}
	}
	return page
}
