package scheduling

import (
	"context"
	"strings"
	"unicode/utf8"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const maxNameLength = 100

type Doctors struct {
	repo domain.Repository
}

func NewDoctors(repo domain.Repository) *Doctors {
	return &Doctors{repo: repo}
}

func (d *Doctors) Create(ctx context.Context, name string) (*models.Doctor, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, domain.ErrMalformedInput
	}

	doc := &models.Doctor{Name: name}
	if err := d.repo.CreateDoctor(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Doctors) Get(ctx context.Context, id uint) (*models.Doctor, error) {
	return d.repo.GetDoctor(ctx, id)
}
