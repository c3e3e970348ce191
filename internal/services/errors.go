/**
 * @description
 * Sentinel errors shared by the service layer.
 * Handlers map these onto HTTP statuses; services wrap them with context
 * via fmt.Errorf("%w").
 */

package services

import "errors"

var (
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller is authenticated but not permitted.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation means the request payload is malformed or out of range.
	ErrValidation = errors.New("invalid input")
	// ErrAuctionClosed means a bid targeted an auction that is no longer open.
	ErrAuctionClosed = errors.New("auction already closed")
	// ErrBidTooLow means the bid did not strictly exceed the current price.
	ErrBidTooLow = errors.New("bid must exceed current price")
	// ErrInsufficientStock means an order asked for more units than available.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConflict means current state forbids an otherwise valid request.
	ErrConflict = errors.New("conflict")
)
