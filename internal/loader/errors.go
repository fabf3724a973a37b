package loader

import "errors"

// ErrFileNotFound возвращается, когда входной файл не существует
var ErrFileNotFound = errors.New("input file not found")

// ErrRead возвращается при любой другой ошибке чтения входных данных
var ErrRead = errors.New("error reading input")
