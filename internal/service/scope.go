package service

import (
	"context"

	"hostel-management-backend/internal/models"
	"hostel-management-backend/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type staffByIDFinder interface {
	FindByID(ctx context.Context, id string) (*models.Staff, error)
}

type studentByIDFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// ScopeResolver maps verified claims to the tenant they may act on. A
// hostel-admin token carries the hostel id as its subject; staff and warden
// tokens are resolved through the staff record, and student tokens through
// the student record. A subject whose backing record has been deleted since
// token issuance resolves to ErrNotFound, never a crash.
type ScopeResolver struct {
	staff    staffByIDFinder
	students studentByIDFinder
}

func NewScopeResolver(staff staffByIDFinder, students studentByIDFinder) *ScopeResolver {
	return &ScopeResolver{staff: staff, students: students}
}

// HostelID resolves the tenant scope for the given claims.
func (r *ScopeResolver) HostelID(ctx context.Context, claims *utils.Claims) (primitive.ObjectID, error) {
	switch claims.Role {
	case models.RoleHostelAdmin:
		oid, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil {
			return primitive.NilObjectID, ErrForbidden
		}
		return oid, nil
	case models.RoleStaff, models.RoleWarden:
		staff, err := r.staff.FindByID(ctx, claims.ID)
		if err != nil {
			return primitive.NilObjectID, err
		}
		return staff.HostelID, nil
	case models.RoleStudent:
		student, err := r.students.FindByID(ctx, claims.ID)
		if err != nil {
			return primitive.NilObjectID, err
		}
		return student.HostelID, nil
	}
	return primitive.NilObjectID, ErrForbidden
}
