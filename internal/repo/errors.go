package repo

import "errors"

var ErrorNotFound = errors.New("not found")
