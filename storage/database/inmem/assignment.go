package inmemdb

import (
	"context"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assignment"
)

type assignmentRepository struct {
	db *assignmentTable
}

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db.assignment}
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.table[asg.ID] = &asg
	return asg, nil
}

func (repo *assignmentRepository) GetAssignmentByID(_ context.Context, id string) (assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if asg, ok := repo.db.table[id]; ok {
		return *asg, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) FilterAssignments(_ context.Context, filter assignment.QueryFilter, orderings ...core.DBOrdering) ([]assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courseIDs := make(map[string]bool, len(filter.CourseIDs))
	for _, id := range filter.CourseIDs {
		courseIDs[id] = true
	}

	var assignments []assignment.Assignment
	for _, asg := range repo.db.table {
		if filter.CourseID != "" && asg.CourseID != filter.CourseID {
			continue
		}
		if len(courseIDs) > 0 && !courseIDs[asg.CourseID] {
			continue
		}
		if !filter.DueBefore.IsZero() && (!asg.DueDate.Valid || asg.DueDate.Time.After(filter.DueBefore)) {
			continue
		}
		if !filter.DueAfter.IsZero() && (!asg.DueDate.Valid || asg.DueDate.Time.Before(filter.DueAfter)) {
			continue
		}
		assignments = append(assignments, *asg)
	}
	sort.Slice(assignments, func(i, j int) bool {
		di, dj := assignments[i].DueDate, assignments[j].DueDate
		if di.Valid != dj.Valid {
			return di.Valid // due-dated first
		}
		if di.Valid {
			return di.Time.Before(dj.Time)
		}
		return assignments[i].CreatedAt.After(assignments[j].CreatedAt)
	})
	return assignments, nil
}

func (repo *assignmentRepository) UpdateAssignment(_ context.Context, asg assignment.Assignment, dueDate *null.Time) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save set fields
	origAsg, ok := repo.db.table[asg.ID]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	if asg.Description.Valid {
		origAsg.Description = asg.Description
	}
	if asg.Points.Valid {
		origAsg.Points = asg.Points
	}
	if dueDate != nil {
		origAsg.DueDate = *dueDate
	}
	origAsg.Title = asg.Title
	origAsg.UpdatedAt = asg.UpdatedAt

	repo.db.table[asg.ID] = origAsg
	return *origAsg, nil
}

func (repo *assignmentRepository) DeleteAssignmentsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
		for attID, att := range repo.db.attachments {
			if att.AssignmentID == id {
				delete(repo.db.attachments, attID)
			}
		}
		for subID, sub := range repo.db.submissions {
			if sub.AssignmentID == id {
				delete(repo.db.submissions, subID)
			}
		}
	}
	return nil
}

func (repo *assignmentRepository) CreateAttachment(_ context.Context, att assignment.Attachment) (assignment.Attachment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.attachments[att.ID] = &att
	return att, nil
}

func (repo *assignmentRepository) GetAttachmentByID(_ context.Context, id string) (assignment.Attachment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if att, ok := repo.db.attachments[id]; ok {
		return *att, nil
	}
	return assignment.Attachment{}, assignment.ErrAttachmentNotFound
}

func (repo *assignmentRepository) GetAttachmentsByAssignmentID(_ context.Context, assignmentID string) ([]assignment.Attachment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var atts []assignment.Attachment
	for _, att := range repo.db.attachments {
		if att.AssignmentID == assignmentID {
			atts = append(atts, *att)
		}
	}
	sort.Slice(atts, func(i, j int) bool { return atts[i].CreatedAt.Before(atts[j].CreatedAt) })
	return atts, nil
}

func (repo *assignmentRepository) DeleteAttachmentsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.attachments, id)
	}
	return nil
}

func (repo *assignmentRepository) UpsertSubmission(_ context.Context, sub assignment.Submission) (assignment.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for id, existing := range repo.db.submissions {
		if existing.AssignmentID == sub.AssignmentID && existing.StudentID == sub.StudentID {
			sub.ID = id
			break
		}
	}
	repo.db.submissions[sub.ID] = &sub
	return sub, nil
}

func (repo *assignmentRepository) GetSubmission(_ context.Context, assignmentID, studentID string) (assignment.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, sub := range repo.db.submissions {
		if sub.AssignmentID == assignmentID && sub.StudentID == studentID {
			return *sub, nil
		}
	}
	return assignment.Submission{}, assignment.ErrSubmissionNotFound
}

func (repo *assignmentRepository) GetSubmissionByID(_ context.Context, id string) (assignment.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sub, ok := repo.db.submissions[id]; ok {
		return *sub, nil
	}
	return assignment.Submission{}, assignment.ErrSubmissionNotFound
}

func (repo *assignmentRepository) GetSubmissionsByAssignmentID(_ context.Context, assignmentID string) ([]assignment.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var subs []assignment.Submission
	for _, sub := range repo.db.submissions {
		if sub.AssignmentID == assignmentID {
			subs = append(subs, *sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.After(subs[j].SubmittedAt) })
	return subs, nil
}
