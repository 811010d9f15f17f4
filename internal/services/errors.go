package services

import "errors"

var ErrFetch = errors.New("fetch failed")
var ErrExtraction = errors.New("extraction failed")
var ErrValidation = errors.New("validation failed")
var ErrAssembly = errors.New("assembly failed")
var ErrPersistence = errors.New("persistence failed")
