package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// seeder posts records read from a YAML file to one API collection.
type seeder struct {
	apiBase  string
	resource string
	username string
	password string
	client   *http.Client
}

func main() {
	if err := newSeedCmd().Execute(); err != nil {
		os.Exit(2)
	}
}

func newSeedCmd() *cobra.Command {
	s := &seeder{}
	var (
		file    string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Create tourist spots or tour plans from a YAML file",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s.client = &http.Client{Timeout: timeout}
			if s.username == "" {
				s.username = os.Getenv("ADMIN_USERNAME")
			}
			if s.password == "" {
				s.password = os.Getenv("ADMIN_PASSWORD")
			}

			items, err := loadItems(file)
			if err != nil {
				return errors.Wrapf(err, "reading %s", file)
			}
			if len(items) == 0 {
				grip.Info("no items to create")
				return nil
			}
			failed, err := s.run(items)
			if err != nil {
				return err
			}
			if failed > 0 {
				return errors.Errorf("%d of %d item(s) failed", failed, len(items))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&s.apiBase, "api", "http://localhost:5000", "API base URL")
	cmd.Flags().StringVar(&s.resource, "resource", "touristsSpot", "collection route: touristsSpot or tourPlans")
	cmd.Flags().StringVar(&s.username, "user", "", "operator username when the API requires a token (default $ADMIN_USERNAME)")
	cmd.Flags().StringVar(&s.password, "pass", "", "operator password (default $ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&file, "file", "utils/seed/spots.yml", "YAML file with a list of records or a map holding one")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "per-request timeout")
	return cmd
}

// run posts every item and returns how many were rejected. Only a failed
// login is returned as an error.
func (s *seeder) run(items []map[string]any) (int, error) {
	var token string
	if s.username != "" && s.password != "" {
		var err error
		if token, err = s.login(); err != nil {
			return 0, errors.Wrap(err, "login failed")
		}
	}

	failed := 0
	for i, item := range items {
		id, err := s.post(token, item)
		if err != nil {
			failed++
			grip.Error(message.WrapError(err, message.Fields{
				"message":  "create failed",
				"resource": s.resource,
				"index":    i,
			}))
			continue
		}
		grip.Info(message.Fields{
			"message":  "created",
			"resource": s.resource,
			"index":    i,
			"id":       id,
		})
	}
	return failed, nil
}

func (s *seeder) url(path string) string {
	return strings.TrimRight(s.apiBase, "/") + path
}

func (s *seeder) login() (string, error) {
	data, _ := json.Marshal(map[string]string{"username": s.username, "password": s.password})

	resp, err := s.client.Post(s.url("/auth/login"), "application/json", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("no access_token in response")
	}
	return out.AccessToken, nil
}

// post creates one record and returns the id the store assigned.
func (s *seeder) post(token string, item map[string]any) (string, error) {
	b, err := json.Marshal(item)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequest(http.MethodPost, s.url("/"+s.resource), bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var ack struct {
		InsertedID string `json:"insertedId"`
	}
	if err := json.Unmarshal(body, &ack); err != nil {
		return "", errors.Wrap(err, "decoding acknowledgment")
	}
	return ack.InsertedID, nil
}

// loadItems accepts either a top-level list of mappings or a mapping with a
// single list value, e.g. {spots: [...]}.
func loadItems(path string) ([]map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data any
	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, err
	}

	var raw []any
	switch v := data.(type) {
	case nil:
		return nil, nil
	case []any:
		raw = v
	case map[string]any:
		if len(v) != 1 {
			return nil, errors.New("expected a list or a map with exactly one list")
		}
		for _, inner := range v {
			list, ok := inner.([]any)
			if !ok {
				return nil, errors.New("expected a list or a map with exactly one list")
			}
			raw = list
		}
	default:
		return nil, errors.Errorf("unexpected YAML root %T", data)
	}

	items := make([]map[string]any, 0, len(raw))
	for i, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			return nil, errors.Errorf("item %d is not a mapping", i)
		}
		items = append(items, m)
	}
	return items, nil
}
