package state

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/idilsaglam/storelocator/internal/api"
	"github.com/idilsaglam/storelocator/internal/model"
)

// ItemForm is the raw input of the add-item form.
type ItemForm struct {
	Name       string
	Price      string
	StoreID    int64
	CategoryID int64
}

// ValidationError is a form input the user must fix.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ValidateNewItem checks the form and builds the request body.
func ValidateNewItem(f ItemForm) (model.NewItem, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return model.NewItem{}, &ValidationError{Field: "name", Message: "Item name is required"}
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(f.Price), "€")), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return model.NewItem{}, &ValidationError{Field: "price", Message: "Price must be a number"}
	}
	if price < 0 {
		return model.NewItem{}, &ValidationError{Field: "price", Message: "Price cannot be negative"}
	}
	if f.StoreID <= 0 {
		return model.NewItem{}, &ValidationError{Field: "store", Message: "Select a store"}
	}
	if f.CategoryID <= 0 {
		return model.NewItem{}, &ValidationError{Field: "category", Message: "Select a category"}
	}

	return model.NewItem{
		Name:       name,
		Price:      math.Round(price*100) / 100,
		StoreID:    f.StoreID,
		CategoryID: f.CategoryID,
	}, nil
}

// SubmitInvalid shows a validation failure. Results and inventory are not
// touched.
func SubmitInvalid(s State, err error) State {
	s.Message = Message{Kind: MessageError, Text: err.Error()}
	return s
}

// ItemSubmitted confirms a created item and closes the store's inventory
// panel so the next expansion fetches the new list.
func ItemSubmitted(s State, it model.NewItem) State {
	s.Message = Message{Kind: MessageInfo, Text: fmt.Sprintf("Added %q", it.Name)}
	return withInventory(s, it.StoreID, Inventory{})
}

// ItemRejected turns a failed POST /items into a user message.
func ItemRejected(s State, err error) State {
	s.Message = Message{Kind: MessageError, Text: RejectionText(err)}
	return s
}

// RejectionText is the user-facing text for a failed item submission.
func RejectionText(err error) string {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		return "Could not reach the server"
	}
	msg := apiErr.Message
	if msg == "" {
		msg = strings.TrimSpace(apiErr.Body)
	}
	switch apiErr.Kind {
	case api.KindValidation:
		if msg == "" {
			return "The item was rejected"
		}
		return msg
	case api.KindRateLimited:
		return "Too many requests, please try again later"
	case api.KindServer:
		if msg == "" {
			return fmt.Sprintf("Server error (%d)", apiErr.Status)
		}
		return msg
	default:
		return fmt.Sprintf("Unexpected response from server (%d)", apiErr.Status)
	}
}

func DismissMessage(s State) State {
	s.Message = Message{}
	return s
}
