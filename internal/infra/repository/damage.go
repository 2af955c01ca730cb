package repository

import (
	"context"

	"car-rental-api/internal/domain/damage"
	"car-rental-api/internal/infra"
	"car-rental-api/internal/infra/db"
	"car-rental-api/internal/infra/repository/converter"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
)

type DamageReportRepository struct {
	db db.DBTX
}

func NewDamageReportRepository(dbtx db.DBTX) *DamageReportRepository {
	return &DamageReportRepository{db: dbtx}
}

func (r *DamageReportRepository) Create(ctx context.Context, report *damage.Report) error {
	query, args, err := db.Build(db.Dialect.Insert("damage_reports").
		Rows(converter.DamageReportToRecord(report)).
		Prepared(true))
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to create damage report", err)
	}
	return nil
}

func (r *DamageReportRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*damage.Report, error) {
	query, args, err := db.Build(db.Dialect.From("damage_reports").
		Select(converter.DamageReportColumns...).
		Where(goqu.C("id").Eq(id)).
		ForUpdate(exp.Wait).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	report, err := converter.ScanDamageReport(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find damage report", err)
	}
	return report, nil
}

func (r *DamageReportRepository) Update(ctx context.Context, report *damage.Report) error {
	query, args, err := db.Build(db.Dialect.Update("damage_reports").
		Set(converter.DamageReportMutableRecord(report)).
		Where(goqu.C("id").Eq(report.ID())).
		Prepared(true))
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update damage report", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "damage report not found")
	}
	return nil
}
