package firebase

import (
	"context"
	"fmt"
	"os"

	"accident-service/config"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// SetUpFireBase builds the Firebase app from FIREBASE_CREDENTIALS, which may hold
// either the service account JSON itself or a path to it. It returns nil when
// no credentials are configured.
func SetUpFireBase(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	creds := cfg.FirebaseCredentials
	if creds == "" {
		return nil, nil
	}

	var opt option.ClientOption
	if creds[0] == '{' {
		opt = option.WithCredentialsJSON([]byte(creds))
	} else {
		if _, err := os.Stat(creds); err != nil {
			return nil, fmt.Errorf("firebase credentials: %w", err)
		}
		opt = option.WithCredentialsFile(creds)
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("init firebase: %w", err)
	}
	return app, nil
}
