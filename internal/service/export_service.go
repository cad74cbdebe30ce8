package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/budyakovan/shift-tracker-bot/internal/model"
	"github.com/budyakovan/shift-tracker-bot/internal/repository"
	"github.com/budyakovan/shift-tracker-bot/internal/rotation"
)

// Export errors surfaced to the handlers.
var (
	ErrExportEmpty = errors.New("nothing to export for the requested range")
)

// ExportService renders schedules and reports to downloadable formats.
type ExportService struct {
	repo   *repository.Repository
	roster *rosterResolver
	logger *zap.Logger
}

func NewExportService(repo *repository.Repository, roster *rosterResolver, logger *zap.Logger) *ExportService {
	return &ExportService{repo: repo, roster: roster, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// OfficeReportXLSX: per-member office day totals as Excel
// ═══════════════════════════════════════════════════════════

// OfficeReportXLSX builds an .xlsx office-days report for a group over
// a date range. Returns the file content and a suggested filename.
func (s *ExportService) OfficeReportXLSX(ctx context.Context, groupKey string, from, to time.Time) (*bytes.Buffer, string, error) {
	if from.After(to) {
		return nil, "", ErrInvalidDateRange
	}
	from, to = dayUTC(from), dayUTC(to)

	report, err := s.repo.Location.OfficeReport(ctx, groupKey, from, to)
	if err != nil {
		s.logger.Error("office report query failed",
			zap.String("group", groupKey), zap.Error(err))
		return nil, "", err
	}
	if len(report) == 0 {
		return nil, "", ErrExportEmpty
	}

	users, err := s.repo.User.List(ctx)
	if err != nil {
		return nil, "", err
	}
	names := make(map[int64]string, len(users))
	for i := range users {
		names[users[i].UserID] = users[i].DisplayName()
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Office days"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 28)
	f.SetColWidth(sheetName, "C", "C", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	title := fmt.Sprintf("%s — office days %s to %s",
		groupKey, from.Format("2006-01-02"), to.Format("2006-01-02"))
	f.SetCellValue(sheetName, "A1", title)
	f.MergeCell(sheetName, "A1", "C1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	f.SetCellValue(sheetName, "A2", "User ID")
	f.SetCellValue(sheetName, "B2", "Name")
	f.SetCellValue(sheetName, "C2", "Office days")
	f.SetCellStyle(sheetName, "A2", "C2", headerStyle)

	for i, line := range report {
		row := 3 + i
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), line.UserID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), names[line.UserID])
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), line.OfficeDays)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("excel generation failed", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("office-report-%s-%s.xlsx", groupKey, to.Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// MemberCalendarICS: one member's shifts as an iCalendar feed
// ═══════════════════════════════════════════════════════════

// MemberCalendarICS renders a member's resolved shifts over a window
// of days as iCalendar content. Night slots end on the following day.
func (s *ExportService) MemberCalendarICS(ctx context.Context, groupKey string, userID int64, from time.Time, days int) (string, string, error) {
	if days < 1 {
		days = 1
	}
	group, err := s.repo.Group.GetByKey(ctx, groupKey)
	if err != nil {
		return "", "", mapNotFound(err, ErrGroupNotFound)
	}

	var slots []model.TimeSlot
	if group.Profile != nil {
		slots = group.Profile.Slots
	} else {
		slots, err = s.repo.Profile.ListSlots(ctx, group.ProfileID)
		if err != nil {
			return "", "", err
		}
	}
	slotByPos := make(map[int]*model.TimeSlot, len(slots))
	for i := range slots {
		slotByPos[slots[i].Pos] = &slots[i]
	}

	members, err := s.repo.Group.ListMembers(ctx, group.ID)
	if err != nil {
		return "", "", err
	}
	var member *model.GroupMember
	for i := range members {
		if members[i].UserID == userID {
			member = &members[i]
			break
		}
	}
	if member == nil {
		return "", "", ErrMemberNotFound
	}

	cycle := s.roster.cycleLength(group)
	loc := time.FixedZone(group.TZName, group.TZOffsetHours*3600)
	now := time.Now()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//shift-tracker//schedule//EN")

	from = dayUTC(from)
	written := 0
	for i := 0; i < days; i++ {
		d := from.AddDate(0, 0, i)
		local := rotation.LocalDate(d, group.TZOffsetHours)
		pos, onShift := rotation.ResolveSlot(group.Epoch, cycle, member.BasePos, local)
		if !onShift {
			continue
		}

		excluded, err := s.repo.Exclusion.IsExcluded(ctx, group.Key, userID, d)
		if err != nil {
			return "", "", err
		}
		if excluded {
			continue
		}

		slot := slotByPos[pos]
		if slot == nil {
			continue
		}
		startMin, err := rotation.ParseHHMM(slot.StartTime)
		if err != nil {
			continue
		}
		endMin, err := rotation.ParseHHMM(slot.EndTime)
		if err != nil {
			continue
		}

		start := time.Date(d.Year(), d.Month(), d.Day(), startMin/60, startMin%60, 0, 0, loc)
		end := time.Date(d.Year(), d.Month(), d.Day(), endMin/60, endMin%60, 0, 0, loc)
		if rotation.IsNightWindow(slot.StartTime, slot.EndTime) {
			end = end.AddDate(0, 0, 1)
		}

		uid := fmt.Sprintf("%s-%d-%s@shift-tracker", group.Key, userID, d.Format("20060102"))
		event := cal.AddEvent(uid)
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		summary := slot.Name
		if summary == "" {
			summary = fmt.Sprintf("Shift slot %d", pos)
		}
		event.SetSummary(summary)
		event.SetDescription(fmt.Sprintf("Group %s shift", group.Key))
		written++
	}

	if written == 0 {
		return "", "", ErrExportEmpty
	}

	filename := fmt.Sprintf("shifts-%s-%d.ics", groupKey, userID)
	return cal.Serialize(), filename, nil
}
