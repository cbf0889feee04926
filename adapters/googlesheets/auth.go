package googlesheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ServiceAccountKey represents the structure of a service account JSON key file
type ServiceAccountKey struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id"`
	TokenURI     string `json:"token_uri"`
}

// NewWithJSONKeyFile creates a SheetsAdaptor from a JSON key file. An empty
// path falls back to GOOGLE_APPLICATION_CREDENTIALS.
func NewWithJSONKeyFile(ctx context.Context, config Config, jsonPath string) (*SheetsAdaptor, error) {
	if jsonPath == "" {
		jsonPath = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if jsonPath == "" {
			return nil, ErrNoCredentials
		}
	}

	ts, err := CreateTokenSource(ctx, jsonPath)
	if err != nil {
		return nil, err
	}
	return NewSheetsAdaptor(ctx, config, option.WithTokenSource(ts))
}

// NewWithJSONKeyData creates a SheetsAdaptor from JSON key data
func NewWithJSONKeyData(ctx context.Context, config Config, jsonData []byte) (*SheetsAdaptor, error) {
	ts, err := CreateTokenSource(ctx, jsonData)
	if err != nil {
		return nil, err
	}
	return NewSheetsAdaptor(ctx, config, option.WithTokenSource(ts))
}

// NewWithServiceAccountKey creates a SheetsAdaptor from an email and a PEM
// private key. Invalid keys surface on the first request.
func NewWithServiceAccountKey(ctx context.Context, config Config, email string, privateKey string) (*SheetsAdaptor, error) {
	ts, err := CreateTokenSource(ctx, &ServiceAccountKey{
		Type:        "service_account",
		ClientEmail: email,
		PrivateKey:  privateKey,
	})
	if err != nil {
		return nil, err
	}
	return NewSheetsAdaptor(ctx, config, option.WithTokenSource(ts))
}

// NewWithDefaultCredentials creates a SheetsAdaptor using Application Default
// Credentials: GOOGLE_APPLICATION_CREDENTIALS, then gcloud's
// application-default login, then the GCE metadata server.
func NewWithDefaultCredentials(ctx context.Context, config Config) (*SheetsAdaptor, error) {
	ts, err := google.DefaultTokenSource(ctx, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to get default token source: %w", err)
	}
	return NewSheetsAdaptor(ctx, config, option.WithTokenSource(ts))
}

// ParseServiceAccountJSON parses a service account JSON file or data
func ParseServiceAccountJSON(jsonData []byte) (*ServiceAccountKey, error) {
	var key ServiceAccountKey
	if err := json.Unmarshal(jsonData, &key); err != nil {
		return nil, fmt.Errorf("failed to parse service account JSON: %w", err)
	}

	if key.Type != "service_account" {
		return nil, fmt.Errorf("invalid key type: %s (expected: service_account)", key.Type)
	}

	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, fmt.Errorf("missing required fields in service account key")
	}

	return &key, nil
}

// CreateTokenSource creates an oauth2.TokenSource scoped to the Sheets API
// from a key file path (string), JSON key data ([]byte) or a parsed
// *ServiceAccountKey.
func CreateTokenSource(ctx context.Context, credentials interface{}) (oauth2.TokenSource, error) {
	switch cred := credentials.(type) {
	case string:
		return createTokenSourceFromFile(ctx, cred)
	case []byte:
		return createTokenSourceFromJSON(ctx, cred)
	case *ServiceAccountKey:
		return createTokenSourceFromKey(ctx, cred), nil
	default:
		return nil, fmt.Errorf("unsupported credential type: %T", credentials)
	}
}

func createTokenSourceFromFile(ctx context.Context, path string) (oauth2.TokenSource, error) {
	jsonData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return createTokenSourceFromJSON(ctx, jsonData)
}

func createTokenSourceFromJSON(ctx context.Context, jsonData []byte) (oauth2.TokenSource, error) {
	creds, err := google.CredentialsFromJSON(ctx, jsonData, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return creds.TokenSource, nil
}

func createTokenSourceFromKey(ctx context.Context, key *ServiceAccountKey) oauth2.TokenSource {
	tokenURL := key.TokenURI
	if tokenURL == "" {
		tokenURL = google.JWTTokenURL
	}
	cfg := &jwt.Config{
		Email:        key.ClientEmail,
		PrivateKey:   []byte(key.PrivateKey),
		PrivateKeyID: key.PrivateKeyID,
		Scopes:       []string{sheets.SpreadsheetsScope},
		TokenURL:     tokenURL,
	}
	return cfg.TokenSource(ctx)
}
