package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

var ErrNoCredentials = errors.New("no database credentials: set DB_USERNAME/DB_PASSWORD or DB_SECRET_ID")

// Credentials is the JSON shape of the database secret.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SecretGetter is the part of the Secrets Manager client used here.
type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func initSecretsClient(ctx context.Context) (*secretsmanager.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return secretsmanager.NewFromConfig(cfg), nil
}

// retrieveCredentials prefers DB_USERNAME/DB_PASSWORD and falls back to the
// JSON secret stored under secretID.
func retrieveCredentials(ctx context.Context, secretID string) (string, string, error) {
	username := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	if username != "" && password != "" {
		return username, password, nil
	}
	if secretID == "" {
		return "", "", ErrNoCredentials
	}

	client, err := initSecretsClient(ctx)
	if err != nil {
		return "", "", err
	}
	creds, err := FetchCredentials(ctx, client, secretID)
	if err != nil {
		return "", "", err
	}
	return creds.Username, creds.Password, nil
}

// FetchCredentials reads and decodes secretID from Secrets Manager.
func FetchCredentials(ctx context.Context, client SecretGetter, secretID string) (Credentials, error) {
	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return Credentials{}, fmt.Errorf("get secret %s: %w", secretID, err)
	}
	if result.SecretString == nil {
		return Credentials{}, fmt.Errorf("secret %s has no string value", secretID)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(*result.SecretString), &creds); err != nil {
		return Credentials{}, fmt.Errorf("decode secret %s: %w", secretID, err)
	}
	return creds, nil
}
