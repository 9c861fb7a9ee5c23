package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/studenthub/marketplace-service/internal/models"
	"github.com/studenthub/marketplace-service/internal/repositories"
)

// fakeRepository is an in-memory repositories.Repository. It keeps the
// service tests free of a real database while still exercising the
// filter, counter and aggregate semantics services rely on.
type fakeRepository struct {
	users       map[uint]*models.User
	courses     map[uint]*models.Course
	enrollments map[uint]*models.Enrollment
	setting     *models.Setting
	subscribers map[string]*models.Subscriber

	nextUserID       uint
	nextCourseID     uint
	nextEnrollmentID uint
	nextSubscriberID uint

	// beforeTransaction runs just before WithTransaction executes its
	// body, letting tests interleave a competing write.
	beforeTransaction func()
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:       make(map[uint]*models.User),
		courses:     make(map[uint]*models.Course),
		enrollments: make(map[uint]*models.Enrollment),
		subscribers: make(map[string]*models.Subscriber),
	}
}

func (f *fakeRepository) User() repositories.UserRepository             { return &fakeUserRepo{f} }
func (f *fakeRepository) Course() repositories.CourseRepository         { return &fakeCourseRepo{f} }
func (f *fakeRepository) Enrollment() repositories.EnrollmentRepository { return &fakeEnrollmentRepo{f} }
func (f *fakeRepository) Settings() repositories.SettingsRepository     { return &fakeSettingsRepo{f} }
func (f *fakeRepository) Dashboard() repositories.DashboardRepository   { return &fakeDashboardRepo{f} }

func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	if f.beforeTransaction != nil {
		f.beforeTransaction()
	}
	return fn(f)
}

func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }

// seed helpers

func (f *fakeRepository) addUser(user models.User) *models.User {
	f.nextUserID++
	user.ID = f.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	stored := user
	f.users[user.ID] = &stored
	return &stored
}

func (f *fakeRepository) addCourse(course models.Course) *models.Course {
	f.nextCourseID++
	course.ID = f.nextCourseID
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now()
	}
	stored := course
	f.courses[course.ID] = &stored
	return &stored
}

func (f *fakeRepository) addEnrollment(enrollment models.Enrollment) *models.Enrollment {
	f.nextEnrollmentID++
	enrollment.ID = f.nextEnrollmentID
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now()
	}
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = enrollment.EnrolledAt
	}
	stored := enrollment
	f.enrollments[enrollment.ID] = &stored
	return &stored
}

// ===== USER =====

type fakeUserRepo struct{ f *fakeRepository }

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range r.f.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	stored := r.f.addUser(*user)
	*user = *stored
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, ok := r.f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.f.users {
		if user.Email == strings.ToLower(email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	for _, user := range r.f.users {
		if user.Email == strings.ToLower(email) && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *user
	r.f.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.f.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.f.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, len(r.f.users))
	for _, user := range r.f.users {
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *fakeUserRepo) ListInstructors(ctx context.Context, filters repositories.InstructorFilters) ([]*models.User, int64, error) {
	var instructors []*models.User
	for _, user := range r.f.users {
		if user.Role != models.RoleInstructor {
			continue
		}
		if filters.Query != nil && !strings.Contains(strings.ToLower(user.Name), strings.ToLower(*filters.Query)) {
			continue
		}
		copied := *user
		instructors = append(instructors, &copied)
	}
	if filters.Sort == "newest" {
		sort.Slice(instructors, func(i, j int) bool { return instructors[i].CreatedAt.After(instructors[j].CreatedAt) })
	} else {
		sort.Slice(instructors, func(i, j int) bool { return instructors[i].Rating > instructors[j].Rating })
	}
	return instructors, int64(len(instructors)), nil
}

func (r *fakeUserRepo) GetInstructor(ctx context.Context, id uint) (*models.User, error) {
	user, ok := r.f.users[id]
	if !ok || (user.Role != models.RoleInstructor && user.Role != models.RoleAdmin) {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	var count int64
	for _, user := range r.f.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

// ===== COURSE =====

type fakeCourseRepo struct{ f *fakeRepository }

func (r *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	stored := r.f.addCourse(*course)
	*course = *stored
	return nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	course, ok := r.f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *course
	return &copied, nil
}

func (r *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := r.f.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *course
	r.f.courses[course.ID] = &stored
	return nil
}

func (r *fakeCourseRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.f.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.f.courses, id)
	return nil
}

func (r *fakeCourseRepo) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var courses []*models.Course
	for _, course := range r.f.courses {
		if filters.Category != nil && course.Category != *filters.Category {
			continue
		}
		if filters.Level != nil && course.Level != *filters.Level {
			continue
		}
		if filters.InstructorID != nil && course.InstructorID != *filters.InstructorID {
			continue
		}
		if filters.Query != nil && !strings.Contains(strings.ToLower(course.Title), strings.ToLower(*filters.Query)) {
			continue
		}
		copied := *course
		courses = append(courses, &copied)
	}

	switch filters.Sort {
	case "popular":
		sort.Slice(courses, func(i, j int) bool { return courses[i].Enrollments > courses[j].Enrollments })
	case "price-asc":
		sort.Slice(courses, func(i, j int) bool { return courses[i].Price < courses[j].Price })
	case "price-desc":
		sort.Slice(courses, func(i, j int) bool { return courses[i].Price > courses[j].Price })
	case "rating":
		sort.Slice(courses, func(i, j int) bool { return courses[i].Rating > courses[j].Rating })
	default:
		sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.After(courses[j].CreatedAt) })
	}

	total := int64(len(courses))
	start := (filters.Page - 1) * filters.PageSize
	if start > len(courses) {
		start = len(courses)
	}
	end := start + filters.PageSize
	if filters.PageSize <= 0 || end > len(courses) {
		end = len(courses)
	}
	return courses[start:end], total, nil
}

func (r *fakeCourseRepo) ListAll(ctx context.Context) ([]*models.Course, error) {
	courses := make([]*models.Course, 0, len(r.f.courses))
	for _, course := range r.f.courses {
		copied := *course
		courses = append(courses, &copied)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (r *fakeCourseRepo) ListByInstructor(ctx context.Context, instructorID uint) ([]*models.Course, error) {
	var courses []*models.Course
	for _, course := range r.f.courses {
		if course.InstructorID == instructorID {
			copied := *course
			courses = append(courses, &copied)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (r *fakeCourseRepo) ListExcluding(ctx context.Context, excludeIDs []uint, limit int) ([]*models.Course, error) {
	excluded := make(map[uint]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	var courses []*models.Course
	for _, course := range r.f.courses {
		if excluded[course.ID] {
			continue
		}
		copied := *course
		courses = append(courses, &copied)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Enrollments > courses[j].Enrollments })
	if limit > 0 && len(courses) > limit {
		courses = courses[:limit]
	}
	return courses, nil
}

func (r *fakeCourseRepo) IDsByInstructor(ctx context.Context, instructorID uint) ([]uint, error) {
	var ids []uint
	for _, course := range r.f.courses {
		if course.InstructorID == instructorID {
			ids = append(ids, course.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeCourseRepo) InstructorAggregates(ctx context.Context, instructorIDs []uint) (map[uint]repositories.InstructorAggregate, error) {
	aggregates := make(map[uint]repositories.InstructorAggregate, len(instructorIDs))
	for _, id := range instructorIDs {
		agg := repositories.InstructorAggregate{InstructorID: id}
		students := make(map[uint]bool)
		for _, course := range r.f.courses {
			if course.InstructorID != id {
				continue
			}
			agg.CourseCount++
			for _, enrollment := range r.f.enrollments {
				if enrollment.CourseID == course.ID {
					students[enrollment.StudentID] = true
				}
			}
		}
		agg.StudentCount = int64(len(students))
		aggregates[id] = agg
	}
	return aggregates, nil
}

func (r *fakeCourseRepo) AverageRating(ctx context.Context, instructorID uint) (float64, error) {
	var sum float64
	var count int
	for _, course := range r.f.courses {
		if course.InstructorID == instructorID {
			sum += course.Rating
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

func (r *fakeCourseRepo) IncrementEnrollments(ctx context.Context, courseID uint, delta int) error {
	course, ok := r.f.courses[courseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	course.Enrollments += delta
	return nil
}

// ===== ENROLLMENT =====

type fakeEnrollmentRepo struct{ f *fakeRepository }

func (r *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	for _, existing := range r.f.enrollments {
		if existing.StudentID == enrollment.StudentID && existing.CourseID == enrollment.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentPaid
	}
	stored := r.f.addEnrollment(*enrollment)
	*enrollment = *stored
	return nil
}

func (r *fakeEnrollmentRepo) Get(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error) {
	for _, enrollment := range r.f.enrollments {
		if enrollment.StudentID == studentID && enrollment.CourseID == courseID {
			copied := *enrollment
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEnrollmentRepo) Exists(ctx context.Context, studentID, courseID uint) (bool, error) {
	_, err := r.Get(ctx, studentID, courseID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *fakeEnrollmentRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.f.enrollments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.f.enrollments, id)
	return nil
}

func (r *fakeEnrollmentRepo) ListByStudent(ctx context.Context, studentID uint) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	for _, enrollment := range r.f.enrollments {
		if enrollment.StudentID != studentID {
			continue
		}
		copied := *enrollment
		if course, ok := r.f.courses[enrollment.CourseID]; ok {
			copied.Course = *course
		}
		enrollments = append(enrollments, &copied)
	}
	sort.Slice(enrollments, func(i, j int) bool {
		return enrollments[i].EnrolledAt.After(enrollments[j].EnrolledAt)
	})
	return enrollments, nil
}

func (r *fakeEnrollmentRepo) CourseIDsByStudent(ctx context.Context, studentID uint) ([]uint, error) {
	var ids []uint
	for _, enrollment := range r.f.enrollments {
		if enrollment.StudentID == studentID {
			ids = append(ids, enrollment.CourseID)
		}
	}
	return ids, nil
}

func (r *fakeEnrollmentRepo) CountByCourses(ctx context.Context, courseIDs []uint) (int64, error) {
	include := make(map[uint]bool, len(courseIDs))
	for _, id := range courseIDs {
		include[id] = true
	}
	var count int64
	for _, enrollment := range r.f.enrollments {
		if include[enrollment.CourseID] {
			count++
		}
	}
	return count, nil
}

func (r *fakeEnrollmentRepo) DistinctStudentCount(ctx context.Context, courseIDs []uint) (int64, error) {
	include := make(map[uint]bool, len(courseIDs))
	for _, id := range courseIDs {
		include[id] = true
	}
	students := make(map[uint]bool)
	for _, enrollment := range r.f.enrollments {
		if include[enrollment.CourseID] {
			students[enrollment.StudentID] = true
		}
	}
	return int64(len(students)), nil
}

func (r *fakeEnrollmentRepo) RevenueByCourses(ctx context.Context, courseIDs []uint) (float64, error) {
	include := make(map[uint]bool, len(courseIDs))
	for _, id := range courseIDs {
		include[id] = true
	}
	var total float64
	for _, enrollment := range r.f.enrollments {
		if include[enrollment.CourseID] && enrollment.Status == models.EnrollmentPaid {
			total += enrollment.Amount
		}
	}
	return total, nil
}

func (r *fakeEnrollmentRepo) RecentByCourses(ctx context.Context, courseIDs []uint, limit int) ([]*models.Enrollment, error) {
	include := make(map[uint]bool, len(courseIDs))
	for _, id := range courseIDs {
		include[id] = true
	}
	var enrollments []*models.Enrollment
	for _, enrollment := range r.f.enrollments {
		if !include[enrollment.CourseID] {
			continue
		}
		copied := *enrollment
		if student, ok := r.f.users[enrollment.StudentID]; ok {
			copied.Student = *student
		}
		if course, ok := r.f.courses[enrollment.CourseID]; ok {
			copied.Course = *course
		}
		enrollments = append(enrollments, &copied)
	}
	sort.Slice(enrollments, func(i, j int) bool {
		return enrollments[i].CreatedAt.After(enrollments[j].CreatedAt)
	})
	if limit > 0 && len(enrollments) > limit {
		enrollments = enrollments[:limit]
	}
	return enrollments, nil
}

// ===== SETTINGS =====

type fakeSettingsRepo struct{ f *fakeRepository }

func (r *fakeSettingsRepo) Get(ctx context.Context) (*models.Setting, error) {
	if r.f.setting == nil {
		r.f.setting = &models.Setting{
			ID:            models.SettingsRowID,
			PlatformName:  "StudentHub",
			Theme:         models.ThemeLight,
			Notifications: true,
		}
	}
	copied := *r.f.setting
	return &copied, nil
}

func (r *fakeSettingsRepo) Update(ctx context.Context, setting *models.Setting) error {
	stored := *setting
	stored.ID = models.SettingsRowID
	r.f.setting = &stored
	return nil
}

func (r *fakeSettingsRepo) Subscribers(ctx context.Context) ([]*models.Subscriber, error) {
	subscribers := make([]*models.Subscriber, 0, len(r.f.subscribers))
	for _, subscriber := range r.f.subscribers {
		copied := *subscriber
		subscribers = append(subscribers, &copied)
	}
	sort.Slice(subscribers, func(i, j int) bool { return subscribers[i].ID < subscribers[j].ID })
	return subscribers, nil
}

func (r *fakeSettingsRepo) AddSubscriber(ctx context.Context, email string) (*models.Subscriber, error) {
	normalized := strings.ToLower(email)
	if _, ok := r.f.subscribers[normalized]; ok {
		return nil, gorm.ErrDuplicatedKey
	}
	r.f.nextSubscriberID++
	subscriber := &models.Subscriber{
		ID:        r.f.nextSubscriberID,
		SettingID: models.SettingsRowID,
		Email:     normalized,
		CreatedAt: time.Now(),
	}
	r.f.subscribers[normalized] = subscriber
	copied := *subscriber
	return &copied, nil
}

func (r *fakeSettingsRepo) RemoveSubscriber(ctx context.Context, email string) error {
	normalized := strings.ToLower(email)
	if _, ok := r.f.subscribers[normalized]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.f.subscribers, normalized)
	return nil
}

// ===== DASHBOARD =====

type fakeDashboardRepo struct{ f *fakeRepository }

func (r *fakeDashboardRepo) TotalUsers(ctx context.Context) (int64, error) {
	return int64(len(r.f.users)), nil
}

func (r *fakeDashboardRepo) TotalCourses(ctx context.Context) (int64, error) {
	return int64(len(r.f.courses)), nil
}

func (r *fakeDashboardRepo) TotalInstructors(ctx context.Context) (int64, error) {
	var count int64
	for _, user := range r.f.users {
		if user.Role == models.RoleInstructor {
			count++
		}
	}
	return count, nil
}

func (r *fakeDashboardRepo) TotalEnrollments(ctx context.Context) (int64, error) {
	return int64(len(r.f.enrollments)), nil
}

func (r *fakeDashboardRepo) RecentSignups(ctx context.Context, days int) (int64, error) {
	since := time.Now().AddDate(0, 0, -days)
	var count int64
	for _, user := range r.f.users {
		if user.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeDashboardRepo) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	for _, enrollment := range r.f.enrollments {
		if enrollment.Status == models.EnrollmentPaid {
			total += enrollment.Amount
		}
	}
	return total, nil
}

func (r *fakeDashboardRepo) MonthlyUserGrowth(ctx context.Context) ([]repositories.MonthlyCount, error) {
	buckets := make(map[int]int64)
	for _, user := range r.f.users {
		buckets[int(user.CreatedAt.Month())]++
	}
	var counts []repositories.MonthlyCount
	for month, count := range buckets {
		counts = append(counts, repositories.MonthlyCount{Month: month, Count: count})
	}
	return counts, nil
}

func (r *fakeDashboardRepo) MonthlyRevenue(ctx context.Context) ([]repositories.MonthlyAmount, error) {
	buckets := make(map[int]float64)
	for _, enrollment := range r.f.enrollments {
		if enrollment.Status == models.EnrollmentPaid {
			buckets[int(enrollment.CreatedAt.Month())] += enrollment.Amount
		}
	}
	var amounts []repositories.MonthlyAmount
	for month, total := range buckets {
		amounts = append(amounts, repositories.MonthlyAmount{Month: month, Total: total})
	}
	return amounts, nil
}

func (r *fakeDashboardRepo) RecentUsers(ctx context.Context, limit int) ([]*models.User, error) {
	users, _ := (&fakeUserRepo{r.f}).List(ctx)
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *fakeDashboardRepo) RecentCourses(ctx context.Context, limit int) ([]*models.Course, error) {
	courses, _ := (&fakeCourseRepo{r.f}).ListAll(ctx)
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.After(courses[j].CreatedAt) })
	if limit > 0 && len(courses) > limit {
		courses = courses[:limit]
	}
	return courses, nil
}

func (r *fakeDashboardRepo) RecentEnrollments(ctx context.Context, limit int) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	for _, enrollment := range r.f.enrollments {
		copied := *enrollment
		if student, ok := r.f.users[enrollment.StudentID]; ok {
			copied.Student = *student
		}
		if course, ok := r.f.courses[enrollment.CourseID]; ok {
			copied.Course = *course
		}
		enrollments = append(enrollments, &copied)
	}
	sort.Slice(enrollments, func(i, j int) bool {
		return enrollments[i].CreatedAt.After(enrollments[j].CreatedAt)
	})
	if limit > 0 && len(enrollments) > limit {
		enrollments = enrollments[:limit]
	}
	return enrollments, nil
}

func (r *fakeDashboardRepo) UserIDsRegisteredSince(ctx context.Context, since time.Time) ([]uint, error) {
	var ids []uint
	for _, user := range r.f.users {
		if user.CreatedAt.After(since) {
			ids = append(ids, user.ID)
		}
	}
	return ids, nil
}

func (r *fakeDashboardRepo) StudentIDsEnrolledSince(ctx context.Context, since time.Time) ([]uint, error) {
	var ids []uint
	for _, enrollment := range r.f.enrollments {
		if enrollment.EnrolledAt.After(since) {
			ids = append(ids, enrollment.StudentID)
		}
	}
	return ids, nil
}

func (r *fakeDashboardRepo) RevenueReport(ctx context.Context) ([]repositories.RevenueReportRow, error) {
	var rows []repositories.RevenueReportRow
	for _, enrollment := range r.f.enrollments {
		if enrollment.Status != models.EnrollmentPaid {
			continue
		}
		row := repositories.RevenueReportRow{
			Price: enrollment.Amount,
			Date:  enrollment.EnrolledAt,
		}
		if course, ok := r.f.courses[enrollment.CourseID]; ok {
			row.Course = course.Title
		}
		if student, ok := r.f.users[enrollment.StudentID]; ok {
			row.Student = student.Name
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}

func (r *fakeDashboardRepo) CoursePerformanceReport(ctx context.Context) ([]repositories.CoursePerformanceRow, error) {
	var rows []repositories.CoursePerformanceRow
	for _, course := range r.f.courses {
		row := repositories.CoursePerformanceRow{
			Course: course.Title,
			Price:  course.Price,
		}
		for _, enrollment := range r.f.enrollments {
			if enrollment.CourseID == course.ID {
				row.TotalEnrollments++
				if enrollment.Status == models.EnrollmentPaid {
					row.TotalRevenue += enrollment.Amount
				}
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Course < rows[j].Course })
	return rows, nil
}
