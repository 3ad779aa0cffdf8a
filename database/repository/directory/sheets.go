package directoryRepo

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"citaflow/config"
	"citaflow/database"
	"citaflow/models"
	"citaflow/utils"

	"google.golang.org/api/sheets/v4"
)

const (
	studentsRange   = "Estudiantes!A2:F"
	teachersRange   = "Docentes!A2:H"
	formFieldsRange = "Configuracion_Formulario!A2:D"
	footerRange     = "Configuracion_Formulario!G2"
	blacklistRange  = "BlackList!A2:A"

	defaultFooter = "Recuerda disponer de tiempo aproximado de 1 hora.\n\nRecibirás recordatorios en este WhatsApp. ¡Nos vemos!"
)

type sheetsDirectoryRepo struct {
	svc     *sheets.Service
	sheetID string
}

// NewSheetsDirectoryRepo returns a DirectoryRepository backed by the
// configured Google spreadsheet.
func NewSheetsDirectoryRepo() DirectoryRepository {
	return &sheetsDirectoryRepo{
		svc:     database.SheetsService,
		sheetID: config.AppConfig.SheetID,
	}
}

func (r *sheetsDirectoryRepo) rows(ctx context.Context, readRange string) ([][]interface{}, error) {
	resp, err := r.svc.Spreadsheets.Values.Get(r.sheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", readRange, err)
	}
	return resp.Values, nil
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[i]))
}

func (r *sheetsDirectoryRepo) GetStudentByID(ctx context.Context, id string) (*models.Student, error) {
	rows, err := r.rows(ctx, studentsRange)
	if err != nil {
		return nil, err
	}
	want := strings.TrimSpace(id)
	for _, row := range rows {
		if cell(row, 0) != want {
			continue
		}
		student := &models.Student{
			ID:     cell(row, 0),
			Name:   cell(row, 1),
			Course: cell(row, 2),
			Grade:  cell(row, 3),
			Shift:  cell(row, 4),
		}
		// Roster format: "Name-Subject, Name-Subject".
		for _, entry := range strings.Split(cell(row, 5), ",") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			name, subject, _ := strings.Cut(entry, "-")
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			student.Teachers = append(student.Teachers, models.TeacherRef{
				Name:    name,
				Subject: strings.TrimSpace(subject),
			})
		}
		return student, nil
	}
	return nil, nil
}

func (r *sheetsDirectoryRepo) GetTeachers(ctx context.Context) ([]models.Teacher, error) {
	rows, err := r.rows(ctx, teachersRange)
	if err != nil {
		return nil, err
	}
	var teachers []models.Teacher
	for _, row := range rows {
		t := models.Teacher{
			Name:         cell(row, 0),
			CalendarID:   cell(row, 1),
			Subject:      cell(row, 2),
			Modalities:   splitList(cell(row, 3)),
			Weekdays:     splitList(cell(row, 4)),
			Hours:        splitList(cell(row, 5)),
			DurationMins: 30,
			MeetLink:     cell(row, 7),
		}
		if mins, err := strconv.Atoi(cell(row, 6)); err == nil && mins > 0 {
			t.DurationMins = mins
		}
		if t.Name == "" || t.CalendarID == "" {
			continue
		}
		teachers = append(teachers, t)
	}
	return teachers, nil
}

func (r *sheetsDirectoryRepo) GetTeacherByName(ctx context.Context, name string) (*models.Teacher, error) {
	teachers, err := r.GetTeachers(ctx)
	if err != nil {
		return nil, err
	}
	want := utils.FoldText(name)
	for i := range teachers {
		if utils.FoldText(teachers[i].Name) == want {
			return &teachers[i], nil
		}
	}
	return nil, nil
}

func (r *sheetsDirectoryRepo) GetFormFields(ctx context.Context) ([]models.FormField, error) {
	rows, err := r.rows(ctx, formFieldsRange)
	if err != nil {
		return nil, err
	}
	var fields []models.FormField
	for _, row := range rows {
		f := models.FormField{
			ID:       cell(row, 0),
			Question: cell(row, 1),
			Required: strings.EqualFold(cell(row, 2), "SI"),
			Order:    999,
		}
		if order, err := strconv.Atoi(cell(row, 3)); err == nil {
			f.Order = order
		}
		if f.ID == "" || f.Question == "" {
			continue
		}
		fields = append(fields, f)
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Order < fields[j].Order })
	return fields, nil
}

func (r *sheetsDirectoryRepo) GetConfirmationFooter(ctx context.Context) (string, error) {
	rows, err := r.rows(ctx, footerRange)
	if err != nil || len(rows) == 0 || cell(rows[0], 0) == "" {
		return defaultFooter, err
	}
	return cell(rows[0], 0), nil
}

func (r *sheetsDirectoryRepo) IsBlacklisted(ctx context.Context, contact string) (bool, error) {
	rows, err := r.rows(ctx, blacklistRange)
	if err != nil {
		return false, err
	}
	normalized := utils.DigitsOnly(contact)
	for _, row := range rows {
		blocked := utils.DigitsOnly(cell(row, 0))
		if blocked == "" {
			continue
		}
		if normalized == blocked ||
			strings.HasSuffix(normalized, blocked) ||
			strings.HasSuffix(blocked, normalized) {
			return true, nil
		}
	}
	return false, nil
}

func (r *sheetsDirectoryRepo) AddToBlacklist(ctx context.Context, contact string) error {
	normalized := utils.DigitsOnly(contact)
	if normalized == "" {
		return fmt.Errorf("contact %q has no digits to blacklist", contact)
	}
	blocked, err := r.IsBlacklisted(ctx, normalized)
	if err != nil {
		return err
	}
	if blocked {
		return nil
	}
	_, err = r.svc.Spreadsheets.Values.Append(r.sheetID, blacklistRange,
		&sheets.ValueRange{Values: [][]interface{}{{normalized}}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append to blacklist: %w", err)
	}
	return nil
}

func (r *sheetsDirectoryRepo) RemoveFromBlacklist(ctx context.Context, contact string) error {
	rows, err := r.rows(ctx, blacklistRange)
	if err != nil {
		return err
	}
	normalized := utils.DigitsOnly(contact)
	kept := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		if utils.DigitsOnly(cell(row, 0)) == normalized {
			continue
		}
		kept = append(kept, row)
	}
	if len(kept) == len(rows) {
		return nil
	}
	// Rewrite the whole column: blank out old rows, then the kept set.
	if _, err := r.svc.Spreadsheets.Values.Clear(r.sheetID, blacklistRange, &sheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear blacklist: %w", err)
	}
	if len(kept) == 0 {
		return nil
	}
	_, err = r.svc.Spreadsheets.Values.Update(r.sheetID, blacklistRange, &sheets.ValueRange{Values: kept}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to rewrite blacklist: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
