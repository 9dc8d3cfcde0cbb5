package models

import "errors"

// ErrShapeMismatch indicates that a date axis and the values indexed by it have different lengths.
var ErrShapeMismatch = errors.New("shape mismatch")

// ErrDuplicateDate indicates that a NamedDates set already holds the date.
var ErrDuplicateDate = errors.New("duplicate date")

// ErrMissingVariable indicates that a posterior or constant variable is not present.
var ErrMissingVariable = errors.New("missing variable")

// ErrEmptyHistory indicates that a forecast table carries no training observations.
var ErrEmptyHistory = errors.New("empty forecast history")
