package services

import (
	"contesto/internal/apperr"
	"contesto/internal/repository"
)

// lookupError turns a repository lookup failure into a typed error
func lookupError(err error, notFound string) error {
	if repository.IsNotFound(err) {
		return apperr.NotFound(notFound)
	}
	return apperr.Internal(notFound, err)
}
