package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Bootstraps a fresh deployment through the HTTP API: ensures the admin
// account exists, seeds the OBD knowledge base and loads a starter parts
// catalog.

var authToken string

func authorizedRequest(method, url string, body *bytes.Buffer) (*http.Response, error) {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func login(apiURL, username, password string) error {
	payload, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := authorizedRequest(http.MethodPost, apiURL+"/api/auth/login", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login failed: %s: %s", resp.Status, body)
	}
	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return err
	}
	authToken = loginResp.Token
	return nil
}

func registerAdmin(apiURL, username, password string) error {
	payload, _ := json.Marshal(map[string]string{
		"username":   username,
		"email":      username + "@workshop.local",
		"password":   password,
		"first_name": "Workshop",
		"last_name":  "Admin",
		"role":       "admin",
	})
	resp, err := authorizedRequest(http.MethodPost, apiURL+"/api/auth/register", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("register failed: %s: %s", resp.Status, body)
	}
	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return err
	}
	authToken = loginResp.Token
	return nil
}

func seedOBD(apiURL string) (int, error) {
	resp, err := authorizedRequest(http.MethodPost, apiURL+"/api/obd/seed", nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("seed failed: %s: %s", resp.Status, body)
	}
	var result struct {
		Inserted int `json:"inserted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, err
	}
	return result.Inserted, nil
}

type catalogItem struct {
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Stock    int      `json:"stock"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

var starterCatalog = []catalogItem{
	{Name: "Engine Oil 5W-30 (1L)", Price: 650, Stock: 40, Category: "fluids", Tags: []string{"oil", "service"}},
	{Name: "Oil Filter", Price: 350, Stock: 25, Category: "filters", Tags: []string{"service"}},
	{Name: "Air Filter", Price: 480, Stock: 18, Category: "filters", Tags: []string{"service"}},
	{Name: "Spark Plug Set", Price: 1200, Stock: 12, Category: "ignition", Tags: []string{"engine"}},
	{Name: "Front Brake Pads", Price: 2200, Stock: 10, Category: "brakes", Tags: []string{"safety"}},
	{Name: "Wiper Blade Pair", Price: 700, Stock: 15, Category: "exterior", Tags: []string{}},
	{Name: "Battery 12V 55Ah", Price: 6200, Stock: 4, Category: "electrical", Tags: []string{"battery"}},
	{Name: "Coolant (1L)", Price: 420, Stock: 30, Category: "fluids", Tags: []string{"cooling"}},
}

func seedCatalog(apiURL string) (int, error) {
	created := 0
	for _, item := range starterCatalog {
		payload, _ := json.Marshal(item)
		resp, err := authorizedRequest(http.MethodPost, apiURL+"/api/inventory", bytes.NewBuffer(payload))
		if err != nil {
			return created, err
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		switch resp.StatusCode {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			// already seeded
		default:
			return created, fmt.Errorf("creating %q failed: %s", item.Name, resp.Status)
		}
	}
	return created, nil
}

func main() {
	_ = godotenv.Load()

	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}
	username := os.Getenv("SEED_ADMIN_USER")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}

	if err := login(apiURL, username, password); err != nil {
		log.WithError(err).Info("Login failed, attempting first-run admin registration")
		if err := registerAdmin(apiURL, username, password); err != nil {
			log.WithError(err).Fatal("Could not log in or register the admin account")
		}
		log.WithField("username", username).Info("Admin account created")
	}

	inserted, err := seedOBD(apiURL)
	if err != nil {
		log.WithError(err).Fatal("OBD seeding failed")
	}
	log.WithField("inserted", inserted).Info("OBD knowledge seeded")

	created, err := seedCatalog(apiURL)
	if err != nil {
		log.WithError(err).Fatal("Catalog seeding failed")
	}
	log.WithField("created", created).Info("Starter catalog seeded")
}
