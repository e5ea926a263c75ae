package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/model"
	"duty-tracker/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
//   - 岗位分布导出为 Excel：Sheet "Totals" 为各岗位类型合计，Sheet "Personnel" 为人员 × 岗位类型矩阵
//   - 个人排班导出为 iCalendar，每条排班一个 VEVENT；无时间窗的排班导出为全天事件
type ExportService interface {
	ExportDistribution(ctx context.Context, req *dto.DistributionRequest) (*bytes.Buffer, string, error)
	ExportPersonCalendar(ctx context.Context, personID string) ([]byte, string, error)
}

type exportService struct {
	repo         *repository.Repository
	distribution *distributionService
	logger       *zap.Logger
}

// newExportService 创建 ExportService 实例；复用分布统计的聚合逻辑
func newExportService(repo *repository.Repository, distribution *distributionService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, distribution: distribution, logger: logger}
}

const (
	sheetTotals    = "Totals"
	sheetPersonnel = "Personnel"
)

// ═══════════════════════════════════════════════════════════
// ExportDistribution — 岗位分布导出为 Excel
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportDistribution(ctx context.Context, req *dto.DistributionRequest) (*bytes.Buffer, string, error) {
	d, persons, err := s.distribution.aggregate(ctx, req)
	if err != nil {
		return nil, "", err
	}

	postTypes := make([]string, 0, len(d.PostTypeTotals))
	for pt := range d.PostTypeTotals {
		postTypes = append(postTypes, pt)
	}
	sort.Strings(postTypes)

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetTotals)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")
	if _, err := f.NewSheet(sheetPersonnel); err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// ── Totals ──
	f.SetColWidth(sheetTotals, "A", "A", 18)
	f.SetColWidth(sheetTotals, "B", "C", 12)
	f.SetCellValue(sheetTotals, "A1", "Post type")
	f.SetCellValue(sheetTotals, "B1", "Assignments")
	f.SetCellValue(sheetTotals, "C1", "Share %")
	f.SetCellStyle(sheetTotals, "A1", "C1", headerStyle)
	row := 2
	for _, pt := range postTypes {
		n := d.PostTypeTotals[pt]
		f.SetCellValue(sheetTotals, cell("A", row), pt)
		f.SetCellValue(sheetTotals, cell("B", row), n)
		if d.Total > 0 {
			f.SetCellValue(sheetTotals, cell("C", row), round1(float64(n)*100/float64(d.Total)))
		}
		row++
	}
	f.SetCellValue(sheetTotals, cell("A", row), "Total")
	f.SetCellValue(sheetTotals, cell("B", row), d.Total)

	// ── Personnel ──
	f.SetColWidth(sheetPersonnel, "A", "A", 8)
	f.SetColWidth(sheetPersonnel, "B", "B", 20)
	f.SetCellValue(sheetPersonnel, "A1", "Rank")
	f.SetCellValue(sheetPersonnel, "B1", "Name")
	for i, pt := range postTypes {
		f.SetCellValue(sheetPersonnel, cell(colName(2+i), 1), pt)
	}
	totalCol := colName(2 + len(postTypes))
	f.SetCellValue(sheetPersonnel, cell(totalCol, 1), "Total")
	f.SetCellStyle(sheetPersonnel, "A1", cell(totalCol, 1), headerStyle)

	row = 2
	for _, ps := range PersonnelStats(d, persons) {
		f.SetCellValue(sheetPersonnel, cell("A", row), ps.Rank)
		name := ps.PersonName
		if name == "" {
			name = ps.PersonID
		}
		f.SetCellValue(sheetPersonnel, cell("B", row), name)
		counts := d.PerPerson[ps.PersonID]
		for i, pt := range postTypes {
			f.SetCellValue(sheetPersonnel, cell(colName(2+i), row), counts[pt])
		}
		f.SetCellValue(sheetPersonnel, cell(totalCol, row), ps.TotalAssignments)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := "post_distribution.xlsx"
	if req.From != "" || req.To != "" {
		filename = fmt.Sprintf("post_distribution_%s_%s.xlsx", orAll(req.From), orAll(req.To))
	}
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportPersonCalendar — 个人排班导出为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportPersonCalendar(ctx context.Context, personID string) ([]byte, string, error) {
	person, err := s.repo.Person.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrPersonNotFound
		}
		s.logger.Error("查询人员失败", zap.String("id", personID), zap.Error(err))
		return nil, "", err
	}

	assignments, _, err := s.repo.Assignment.List(ctx, repository.AssignmentFilter{PersonID: personID})
	if err != nil {
		s.logger.Error("查询人员排班失败", zap.String("id", personID), zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//duty-tracker//duty calendar//EN")
	cal.SetName(person.FullName() + " duty")

	for i := range assignments {
		addDutyEvent(cal, &assignments[i])
	}

	filename := fmt.Sprintf("duty_%s_%s.ics", strings.ToLower(string(person.Rank)), strings.ReplaceAll(strings.ToLower(person.Name), " ", "_"))
	return []byte(cal.Serialize()), filename, nil
}

func addDutyEvent(cal *ics.Calendar, a *model.Assignment) {
	event := cal.AddEvent(a.AssignmentID + "@duty-tracker")
	event.SetDtStampTime(a.CreatedAt.UTC())

	postName, typeName := UnresolvedPostType, ""
	if a.Post != nil {
		postName = a.Post.Name
		typeName = a.Post.TypeName()
	}
	event.SetSummary("Duty: " + postName)

	var desc []string
	if typeName != "" && typeName != postName {
		desc = append(desc, "Post type: "+typeName)
	}
	if a.Post != nil && a.Post.PostType != nil {
		pt := a.Post.PostType
		if pt.MeetingTime != "" || pt.MeetingLocation != "" {
			desc = append(desc, strings.TrimSpace("Meet "+pt.MeetingTime+" "+pt.MeetingLocation))
			if pt.MeetingLocation != "" {
				event.SetLocation(pt.MeetingLocation)
			}
		}
		if len(pt.EquipmentRequired) > 0 {
			desc = append(desc, "Equipment: "+strings.Join(pt.EquipmentRequired, ", "))
		}
	}
	desc = append(desc, "Status: "+a.Status)
	if a.Notes != "" {
		desc = append(desc, "Notes: "+a.Notes)
	}
	event.SetDescription(strings.Join(desc, "\n"))

	day := time.Date(a.DutyDate.Year(), a.DutyDate.Month(), a.DutyDate.Day(), 0, 0, 0, 0, time.UTC)
	startMin, okStart := clockMinutes(a.StartTime)
	endMin, okEnd := clockMinutes(a.EndTime)
	if okStart && okEnd && startMin < endMin {
		event.SetStartAt(day.Add(time.Duration(startMin) * time.Minute))
		event.SetEndAt(day.Add(time.Duration(endMin) * time.Minute))
		return
	}
	event.SetAllDayStartAt(day)
	event.SetAllDayEndAt(day.AddDate(0, 0, 1))
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func orAll(v string) string {
	if v == "" {
		return "all"
	}
	return v
}
