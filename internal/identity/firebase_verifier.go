package identity

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type FirebaseConfig struct {
	ProjectID          string
	ServiceAccountJSON string
	CredentialsFile    string
}

// FirebaseVerifier delegates to the Firebase Admin auth client.
type FirebaseVerifier struct {
	client *auth.Client
	logger *slog.Logger
}

// NewFirebaseVerifier picks credentials from inline JSON, then the credentials
// file when it exists, then application default credentials.
func NewFirebaseVerifier(ctx context.Context, cfg FirebaseConfig, logger *slog.Logger) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	switch {
	case cfg.ServiceAccountJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)))
		logger.Info("firebase credentials loaded from environment")
	case cfg.CredentialsFile != "" && fileExists(cfg.CredentialsFile):
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		logger.Info("firebase credentials loaded from file", "path", cfg.CredentialsFile)
	default:
		logger.Info("firebase using application default credentials")
	}

	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}
	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &FirebaseVerifier{client: client, logger: logger}, nil
}

func (v *FirebaseVerifier) VerifyToken(ctx context.Context, token string) (*Claims, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		v.logger.Debug("id token rejected", "error", err)
		return nil, ErrUnauthenticated
	}
	if decoded.UID == "" {
		return nil, ErrUnauthenticated
	}
	claims := &Claims{Subject: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		claims.Name = name
	}
	return claims, nil
}

func (v *FirebaseVerifier) LookupIdentity(ctx context.Context, uid string) error {
	if uid == "" {
		return ErrUnknownIdentity
	}
	if _, err := v.client.GetUser(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return ErrUnknownIdentity
		}
		return fmt.Errorf("firebase get user: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
