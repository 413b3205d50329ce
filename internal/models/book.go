package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookCondition string

const (
	ConditionGood BookCondition = "Good"
	ConditionFair BookCondition = "Fair"
	ConditionPoor BookCondition = "Poor"

	BookEntity = "book"
)

type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "Available"
	StatusUnavailable AvailabilityStatus = "Unavailable"
)

type Book struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID             primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Title              string             `bson:"title" json:"title"`
	Author             string             `bson:"author" json:"author"`
	Genre              string             `bson:"genre" json:"genre"`
	Condition          string             `bson:"condition" json:"condition"`
	AvailabilityStatus string             `bson:"availabilityStatus" json:"availabilityStatus"`
	CreatedAt          time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt          time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// BookSummary is the public projection of a book: no owner, no timestamps.
type BookSummary struct {
	ID                 primitive.ObjectID `bson:"_id" json:"id"`
	Title              string             `bson:"title" json:"title"`
	Author             string             `bson:"author" json:"author"`
	Genre              string             `bson:"genre" json:"genre"`
	Condition          string             `bson:"condition" json:"condition"`
	AvailabilityStatus string             `bson:"availabilityStatus" json:"availabilityStatus"`
}

// BookSearchResult adds the timestamps the search surface exposes.
type BookSearchResult struct {
	ID                 primitive.ObjectID `bson:"_id" json:"id"`
	Title              string             `bson:"title" json:"title"`
	Author             string             `bson:"author" json:"author"`
	Genre              string             `bson:"genre" json:"genre"`
	Condition          string             `bson:"condition" json:"condition"`
	AvailabilityStatus string             `bson:"availabilityStatus" json:"availabilityStatus"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

var ValidConditions = map[string]bool{
	string(ConditionGood): true,
	string(ConditionFair): true,
	string(ConditionPoor): true,
}

func IsValidCondition(condition string) bool {
	return ValidConditions[condition]
}

var ValidAvailabilityStatuses = map[string]bool{
	string(StatusAvailable):   true,
	string(StatusUnavailable): true,
}

func IsValidAvailabilityStatus(status string) bool {
	return ValidAvailabilityStatuses[status]
}
