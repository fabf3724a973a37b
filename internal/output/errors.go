package output

import "errors"

// ErrWrite возвращается, когда результат не удалось записать
var ErrWrite = errors.New("error writing output")
