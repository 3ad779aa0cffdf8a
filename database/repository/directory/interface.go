package directoryRepo

import (
	"context"

	"citaflow/models"
)

// DirectoryRepository reads the externally maintained school directory:
// students, teachers, intake form configuration and the blacklist.
// All of it is mutated outside this service; reads go to the sheet
// every time so edits take effect immediately.
type DirectoryRepository interface {
	GetStudentByID(ctx context.Context, id string) (*models.Student, error)
	GetTeachers(ctx context.Context) ([]models.Teacher, error)
	GetTeacherByName(ctx context.Context, name string) (*models.Teacher, error)
	GetFormFields(ctx context.Context) ([]models.FormField, error)
	GetConfirmationFooter(ctx context.Context) (string, error)
	IsBlacklisted(ctx context.Context, contact string) (bool, error)
	// AddToBlacklist and RemoveFromBlacklist are the only directory
	// writes; everything else is operator-edited.
	AddToBlacklist(ctx context.Context, contact string) error
	RemoveFromBlacklist(ctx context.Context, contact string) error
}
