// utils/firebase.go
package utils

import (
	"clinicsite/config"
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseAdminVerifier accepts Firebase ID tokens whose custom claims mark
// the user as an admin.
type FirebaseAdminVerifier struct {
	client *auth.Client
}

// NewFirebaseAdminVerifier initializes the Firebase App and Auth client.
func NewFirebaseAdminVerifier(ctx context.Context) (*FirebaseAdminVerifier, error) {
	var opts []option.ClientOption
	if path := config.FirebaseCredentialsPath(); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Auth client: %w", err)
	}
	return &FirebaseAdminVerifier{client: client}, nil
}

func (v *FirebaseAdminVerifier) Verify(ctx context.Context, idToken string) (string, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	if isAdmin, _ := token.Claims[AdminRole].(bool); !isAdmin {
		return "", errors.New("firebase user is not an admin")
	}
	return token.UID, nil
}
