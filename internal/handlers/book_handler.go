package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Lucifergene/bookswap-connect/internal/constants"
	"github.com/Lucifergene/bookswap-connect/internal/middleware"
	"github.com/Lucifergene/bookswap-connect/internal/models"
	"github.com/Lucifergene/bookswap-connect/internal/search"
	"github.com/Lucifergene/bookswap-connect/internal/utils"
)

type BookHandler struct {
	BookCollection *mongo.Collection
	AuditLogger    utils.Logger
}

func NewBookHandler(bookColl *mongo.Collection, logger utils.Logger) *BookHandler {
	return &BookHandler{BookCollection: bookColl, AuditLogger: logger}
}

type BookRequest struct {
	Title              string `json:"title"`
	Author             string `json:"author"`
	Genre              string `json:"genre"`
	Condition          string `json:"condition"`
	AvailabilityStatus string `json:"availabilityStatus"`
}

// listProjection is the public shape of a book: identifiers and
// timestamps stay out of the browse listing.
var listProjection = bson.M{
	"title":              1,
	"author":             1,
	"genre":              1,
	"condition":          1,
	"availabilityStatus": 1,
}

var searchProjection = bson.M{
	"title":              1,
	"author":             1,
	"genre":              1,
	"condition":          1,
	"availabilityStatus": 1,
	"createdAt":          1,
	"updatedAt":          1,
}

// Both the list and search paths return newest-first.
var newestFirst = bson.D{{Key: "_id", Value: -1}}

// GET /api/books (public; with ?user_id= requires a token matching that user)
func (h *BookHandler) GetBooks(w http.ResponseWriter, r *http.Request) {
	targetUserID := r.URL.Query().Get("user_id")

	filter := bson.M{}
	if targetUserID != "" {
		callerID, err := middleware.BearerUserID(r)
		if err != nil {
			utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if callerID != targetUserID {
			utils.JSONFail(w, "Forbidden: Access to this user's books is not allowed", http.StatusForbidden)
			return
		}

		oid, err := primitive.ObjectIDFromHex(targetUserID)
		if err != nil {
			utils.JSONFail(w, "Invalid user ID", http.StatusBadRequest)
			return
		}
		filter["userId"] = oid
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(listProjection).SetSort(newestFirst)
	cursor, err := h.BookCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.JSONFail(w, "Failed to fetch books. Please try again later.", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	books := []models.BookSummary{}
	if err = cursor.All(ctx, &books); err != nil {
		utils.JSONFail(w, "Failed to fetch books. Please try again later.", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    books,
	})
}

// POST /api/books
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.UserIDFromContext(r.Context())

	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONFail(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if req.Title == "" || req.Author == "" || req.Genre == "" || req.Condition == "" || req.AvailabilityStatus == "" {
		utils.JSONFail(w, "All fields are required", http.StatusBadRequest)
		return
	}
	if !models.IsValidCondition(req.Condition) {
		utils.JSONFail(w, "Invalid condition value", http.StatusBadRequest)
		return
	}
	if !models.IsValidAvailabilityStatus(req.AvailabilityStatus) {
		utils.JSONFail(w, "Invalid availability status value", http.StatusBadRequest)
		return
	}

	ownerID, err := primitive.ObjectIDFromHex(callerID)
	if err != nil {
		utils.JSONError(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	// The owner always comes from the verified token, never the body.
	now := time.Now()
	book := models.Book{
		ID:                 primitive.NewObjectID(),
		UserID:             ownerID,
		Title:              req.Title,
		Author:             req.Author,
		Genre:              req.Genre,
		Condition:          req.Condition,
		AvailabilityStatus: req.AvailabilityStatus,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := h.BookCollection.InsertOne(ctx, book); err != nil {
		utils.JSONFail(w, "Failed to create book. Please try again later.", http.StatusInternalServerError)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Create, callerID, book)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Book created successfully",
		"book":    book,
	})
}

// PUT /api/books/{id}
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.UserIDFromContext(r.Context())

	bookID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.JSONFail(w, "Invalid book ID", http.StatusBadRequest)
		return
	}

	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONFail(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var book models.Book
	err = h.BookCollection.FindOne(ctx, bson.M{"_id": bookID}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.JSONFail(w, "Book not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.JSONFail(w, "Failed to update book. Please try again later.", http.StatusInternalServerError)
		return
	}

	if book.UserID.Hex() != callerID {
		utils.JSONFail(w, "Forbidden: You are not allowed to edit this book", http.StatusForbidden)
		return
	}

	// Omitted and empty fields keep their prior value.
	if req.Title != "" {
		book.Title = req.Title
	}
	if req.Author != "" {
		book.Author = req.Author
	}
	if req.Genre != "" {
		book.Genre = req.Genre
	}
	if req.Condition != "" {
		if !models.IsValidCondition(req.Condition) {
			utils.JSONFail(w, "Invalid condition value", http.StatusBadRequest)
			return
		}
		book.Condition = req.Condition
	}
	if req.AvailabilityStatus != "" {
		if !models.IsValidAvailabilityStatus(req.AvailabilityStatus) {
			utils.JSONFail(w, "Invalid availability status value", http.StatusBadRequest)
			return
		}
		book.AvailabilityStatus = req.AvailabilityStatus
	}
	book.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"title":              book.Title,
		"author":             book.Author,
		"genre":              book.Genre,
		"condition":          book.Condition,
		"availabilityStatus": book.AvailabilityStatus,
		"updatedAt":          book.UpdatedAt,
	}}

	if _, err := h.BookCollection.UpdateByID(ctx, bookID, update); err != nil {
		utils.JSONFail(w, "Failed to update book. Please try again later.", http.StatusInternalServerError)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Update, callerID, book)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Book updated successfully",
		"book":    book,
	})
}

// DELETE /api/books/{id}
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.UserIDFromContext(r.Context())

	bookID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.JSONFail(w, "Invalid book ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var book models.Book
	err = h.BookCollection.FindOne(ctx, bson.M{"_id": bookID}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.JSONFail(w, "Book not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.JSONFail(w, "Failed to delete book. Please try again later.", http.StatusInternalServerError)
		return
	}

	if book.UserID.Hex() != callerID {
		utils.JSONFail(w, "Forbidden: You are not allowed to delete this book", http.StatusForbidden)
		return
	}

	if _, err := h.BookCollection.DeleteOne(ctx, bson.M{"_id": bookID}); err != nil {
		utils.JSONFail(w, "Failed to delete book. Please try again later.", http.StatusInternalServerError)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Delete, callerID, bookID.Hex())

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Book deleted successfully",
	})
}

// GET /api/books/search
func (h *BookHandler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := search.BuildFilter(search.ParamsFromQuery(query))
	window := search.ParsePagination(query)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	totalResults, err := h.BookCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.JSONFail(w, "Failed to search books. Please try again later.", http.StatusInternalServerError)
		return
	}

	opts := options.Find().
		SetSkip(window.Skip()).
		SetLimit(int64(window.Limit)).
		SetProjection(searchProjection).
		SetSort(newestFirst)

	cursor, err := h.BookCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.JSONFail(w, "Failed to search books. Please try again later.", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	books := []models.BookSearchResult{}
	if err = cursor.All(ctx, &books); err != nil {
		utils.JSONFail(w, "Failed to search books. Please try again later.", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"books":    books,
			"pageInfo": window.PageInfo(totalResults),
		},
	})
}
