package service

import "errors"

// ErrNoURLs возвращается, когда во входном файле нет ни одного URL
var ErrNoURLs = errors.New("no URLs found in input")
