package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"golang.org/x/crypto/bcrypt"

	"github.com/Lucifergene/bookswap-connect/internal/handlers"
	"github.com/Lucifergene/bookswap-connect/internal/middleware"
	"github.com/Lucifergene/bookswap-connect/internal/utils"
)

func TestAuthHandler_Register(t *testing.T) {
	utils.InitJwtSecret("test-secret")

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("missing fields", func(mt *mtest.T) {
		handler := handlers.NewAuthHandler(mt.Coll, utils.Logger{Collection: mt.Coll})

		router := mux.NewRouter()
		router.HandleFunc("/api/auth/register", handler.Register).Methods("POST")

		body, _ := json.Marshal(handlers.RegisterRequest{Username: "a", Email: "a@x.com"})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status BadRequest, got %v", w.Code)
		}
	})

	mt.Run("short password", func(mt *mtest.T) {
		handler := handlers.NewAuthHandler(mt.Coll, utils.Logger{Collection: mt.Coll})

		router := mux.NewRouter()
		router.HandleFunc("/api/auth/register", handler.Register).Methods("POST")

		body, _ := json.Marshal(handlers.RegisterRequest{Username: "a", Email: "a@x.com", Password: "abc"})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status BadRequest, got %v", w.Code)
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		handler := handlers.NewAuthHandler(mt.Coll, utils.Logger{Collection: mt.Coll})

		// Existing user found by email lookup
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "a@x.com"},
		}))

		router := mux.NewRouter()
		router.HandleFunc("/api/auth/register", handler.Register).Methods("POST")

		body, _ := json.Marshal(handlers.RegisterRequest{Username: "a", Email: "a@x.com", Password: "abcdef"})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("expected status Conflict, got %v", w.Code)
		}
	})

	mt.Run("successful registration", func(mt *mtest.T) {
		handler := handlers.NewAuthHandler(mt.Coll, utils.Logger{Collection: mt.Coll})

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch), // no existing user
			mtest.CreateSuccessResponse(), // user insert
			mtest.CreateSuccessResponse(), // audit insert
		)

		router := mux.NewRouter()
		router.HandleFunc("/api/auth/register", handler.Register).Methods("POST")

		body, _ := json.Marshal(handlers.RegisterRequest{Username: "a", Email: "a@x.com", Password: "abcdef"})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status Created, got %v", w.Code)
		}

		var resp map[string]interface{}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp["username"] != "a" {
			t.Errorf("expected username in response, got %v", resp["username"])
		}
		if resp["userId"] == "" {
			t.Error("expected a userId in response")
		}
	})
}

func TestAuthHandler_Login(t *testing.T) {
	utils.InitJwtSecret("test-secret")

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("missing fields", func(mt *mtest.T) {
		handler := handlers.NewAuthHandler(mt.Coll, utils.Logger{Collection: mt.Coll})

		router := mux.NewRouter()
		router.HandleFunc("/api/auth/login", handler.Login).Methods("POST")

		body, _ := json.Marshal(handlers.LoginRequest{Email: "a@x.com"})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status BadRequest, got %v", w.Code)
		}
	})

	mt.Run("unknown email", func(mt *mtest.T) {
		handler := handlers.NewAuthHandler(mt.Coll, utils.Logger{Collection: mt.Coll})

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		router := mux.NewRouter()
		router.HandleFunc("/api/auth/login", handler.Login).Methods("POST")

		body, _ := json.Marshal(handlers.LoginRequest{Email: "nobody@x.com", Password: "abcdef"})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status Unauthorized, got %v", w.Code)
		}
	})

	mt.Run("wrong password", func(mt *mtest.T) {
		handler := handlers.NewAuthHandler(mt.Coll, utils.Logger{Collection: mt.Coll})

		hash, _ := bcrypt.GenerateFromPassword([]byte("correct-pass"), bcrypt.MinCost)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "username", Value: "a"},
			{Key: "email", Value: "a@x.com"},
			{Key: "password", Value: string(hash)},
		}))

		router := mux.NewRouter()
		router.HandleFunc("/api/auth/login", handler.Login).Methods("POST")

		body, _ := json.Marshal(handlers.LoginRequest{Email: "a@x.com", Password: "wrong-pass"})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status Unauthorized, got %v", w.Code)
		}
	})

	mt.Run("successful login returns token", func(mt *mtest.T) {
		handler := handlers.NewAuthHandler(mt.Coll, utils.Logger{Collection: mt.Coll})

		userID := primitive.NewObjectID()
		hash, _ := bcrypt.GenerateFromPassword([]byte("abcdef"), bcrypt.MinCost)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: userID},
			{Key: "username", Value: "a"},
			{Key: "email", Value: "a@x.com"},
			{Key: "password", Value: string(hash)},
		}))

		router := mux.NewRouter()
		router.HandleFunc("/api/auth/login", handler.Login).Methods("POST")

		body, _ := json.Marshal(handlers.LoginRequest{Email: "a@x.com", Password: "abcdef"})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status OK, got %v", w.Code)
		}

		var resp map[string]interface{}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}

		token, _ := resp["token"].(string)
		if token == "" {
			t.Fatal("expected a token in response")
		}
		claims, err := utils.ParseJWT(token)
		if err != nil {
			t.Fatalf("returned token did not verify: %v", err)
		}
		if claims.UserID != userID.Hex() {
			t.Errorf("token UserID = %v, want %v", claims.UserID, userID.Hex())
		}
	})
}

func TestAuthHandler_CurrentUser(t *testing.T) {
	utils.InitJwtSecret("test-secret")

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	newUserRouter := func(handler *handlers.AuthHandler) *mux.Router {
		router := mux.NewRouter()
		protected := router.PathPrefix("/api").Subrouter()
		protected.Use(middleware.JWTAuthMiddleware)
		protected.HandleFunc("/auth/user", handler.CurrentUser).Methods("GET")
		return router
	}

	mt.Run("missing token", func(mt *mtest.T) {
		handler := handlers.NewAuthHandler(mt.Coll, utils.Logger{Collection: mt.Coll})
		router := newUserRouter(handler)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status Unauthorized, got %v", w.Code)
		}
	})

	mt.Run("user record gone", func(mt *mtest.T) {
		handler := handlers.NewAuthHandler(mt.Coll, utils.Logger{Collection: mt.Coll})
		router := newUserRouter(handler)

		// valid token, but the account no longer exists
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		token, err := utils.GenerateJWT(primitive.NewObjectID().Hex())
		if err != nil {
			t.Fatalf("GenerateJWT() error = %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status NotFound, got %v", w.Code)
		}
	})

	mt.Run("returns profile for valid token", func(mt *mtest.T) {
		handler := handlers.NewAuthHandler(mt.Coll, utils.Logger{Collection: mt.Coll})
		router := newUserRouter(handler)

		userID := primitive.NewObjectID()
		createDate := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: userID},
			{Key: "username", Value: "a"},
			{Key: "email", Value: "a@x.com"},
			{Key: "date", Value: primitive.NewDateTimeFromTime(createDate)},
		}))

		token, err := utils.GenerateJWT(userID.Hex())
		if err != nil {
			t.Fatalf("GenerateJWT() error = %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status OK, got %v", w.Code)
		}

		var resp struct {
			UserID     string    `json:"userId"`
			Username   string    `json:"username"`
			Email      string    `json:"email"`
			CreateDate time.Time `json:"createDate"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.UserID != userID.Hex() {
			t.Errorf("userId = %v, want %v", resp.UserID, userID.Hex())
		}
		if resp.Username != "a" || resp.Email != "a@x.com" {
			t.Errorf("unexpected profile fields: %+v", resp)
		}
		if !resp.CreateDate.Equal(createDate) {
			t.Errorf("createDate = %v, want %v", resp.CreateDate, createDate)
		}
	})
}
