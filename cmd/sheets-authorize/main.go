// Command sheets-authorize runs the Google OAuth consent flow once and saves
// an authorized_user credentials file. Point GOOGLE_APPLICATION_CREDENTIALS at
// it to run the API against a personal spreadsheet without a service account.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gsheet "google.golang.org/api/sheets/v4"

	"sheetwallet/internal/cli"
	applog "sheetwallet/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))

	if err := run(logger); err != nil {
		logger.Error("Authorization failed", applog.FieldError, err)
		os.Exit(1)
	}
}

func run(logger *applog.Logger) error {
	clientJSON, err := loadClientJSON(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"), os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))
	if err != nil {
		return err
	}
	cfg, err := google.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return fmt.Errorf("oauth config: %w", err)
	}

	port := os.Getenv("OAUTH_REDIRECT_PORT")
	if port == "" {
		port = "8085"
	}
	// The OAuth client must list this URI among its authorized redirects.
	cfg.RedirectURL = "http://localhost:" + port + "/callback"

	state := uuid.NewString()
	codeCh := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /callback", callbackHandler(state, codeCh))
	srv := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Callback server failed", applog.FieldError, err)
		}
	}()
	defer srv.Close()

	fmt.Printf("Open this URL to authorize:\n%s\n", cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	var code string
	select {
	case code = <-codeCh:
	case <-ctx.Done():
		return fmt.Errorf("waiting for authorization: %w", ctx.Err())
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("token exchange: %w", err)
	}
	out, err := authorizedUserJSON(cfg, tok)
	if err != nil {
		return err
	}

	outFile := os.Getenv("GOOGLE_OAUTH_TOKEN_FILE")
	if outFile == "" {
		outFile = "authorized_user.json"
	}
	if err := os.WriteFile(outFile, out, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	logger.Info("Saved authorized user credentials", "path", outFile)
	fmt.Printf("Saved credentials to %s; set GOOGLE_APPLICATION_CREDENTIALS=%s\n", outFile, outFile)
	return nil
}

func loadClientJSON(inline, file string) ([]byte, error) {
	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read client file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE")
	}
}

func callbackHandler(state string, codeCh chan<- string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if e := q.Get("error"); e != "" {
			http.Error(w, "OAuth error: "+e, http.StatusBadRequest)
			return
		}
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "You may close this window and return to the terminal.")
		select {
		case codeCh <- code:
		default:
		}
	}
}

// authorizedUserJSON renders the credentials file format understood by
// option.WithCredentialsJSON.
func authorizedUserJSON(cfg *oauth2.Config, tok *oauth2.Token) ([]byte, error) {
	if tok.RefreshToken == "" {
		return nil, errors.New("no refresh token returned; revoke the app's access and retry")
	}
	return json.MarshalIndent(map[string]string{
		"type":          "authorized_user",
		"client_id":     cfg.ClientID,
		"client_secret": cfg.ClientSecret,
		"refresh_token": tok.RefreshToken,
	}, "", "  ")
}
