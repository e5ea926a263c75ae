package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/model"
	"duty-tracker/internal/repository"
	pkgerrors "duty-tracker/pkg/errors"
)

// ── 岗位模块业务错误 ──

var (
	ErrPostNotFound     = errors.New("岗位不存在")
	ErrPostTypeNotFound = errors.New("岗位类型不存在")
	ErrPostTypeExists   = errors.New("岗位类型已存在")
	ErrPostExists       = errors.New("该类型下已存在同名岗位")
)

// PostService 岗位业务接口
type PostService interface {
	ListTypes(ctx context.Context) ([]dto.PostTypeResponse, error)
	CreateType(ctx context.Context, req *dto.CreatePostTypeRequest) (*dto.PostTypeResponse, error)
	ListPosts(ctx context.Context) ([]dto.PostResponse, error)
	CreatePost(ctx context.Context, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	// SetupDefaults 补齐标准岗位类型与岗位，已存在的跳过，可重复调用
	SetupDefaults(ctx context.Context) (*dto.SetupPostsResponse, error)
}

type postService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPostService 创建 PostService 实例
func NewPostService(repo *repository.Repository, logger *zap.Logger) PostService {
	return &postService{repo: repo, logger: logger}
}

// ── 标准岗位 ──

var defaultPostTypes = []model.PostType{
	{
		Name:              model.PostTypeSOG,
		Description:       "Staff Officer of the Guard",
		EquipmentRequired: model.EquipmentList{"OCP's", "IOTV", "ACH", "Pistol Holster"},
		MeetingTime:       "0700",
		MeetingLocation:   "TOC",
		PersonnelRequired: 1,
	},
	{
		Name:              model.PostTypeCQ,
		Description:       "Charge of Quarters",
		EquipmentRequired: model.EquipmentList{"OCP's"},
		MeetingTime:       "0700",
		MeetingLocation:   "TOC",
		PersonnelRequired: 1,
	},
	{
		Name:              model.PostTypeECP,
		Description:       "Entry Control Point",
		EquipmentRequired: model.EquipmentList{"OCP's", "ACH", "Wet Weather Gear", "Pistol Holster", "IOTV", "Thermacell"},
		MeetingTime:       "0615",
		MeetingLocation:   "Front of C10",
		PersonnelRequired: 2,
	},
	{
		Name:              model.PostTypeVCP,
		Description:       "Vehicle Control Point",
		EquipmentRequired: model.EquipmentList{"OCP's", "Wet Weather Gear"},
		MeetingTime:       "0645",
		MeetingLocation:   "Front of C10",
		PersonnelRequired: 2,
	},
	{
		Name:              model.PostTypeRover,
		Description:       "Rover Patrol",
		EquipmentRequired: model.EquipmentList{"OCP's", "Wet Weather Gear"},
		MeetingTime:       "0645",
		MeetingLocation:   "Front of C10",
		PersonnelRequired: 2,
	},
	{
		Name:              model.PostTypeStandBy,
		Description:       "Stand by personnel",
		EquipmentRequired: model.EquipmentList{},
		PersonnelRequired: 1,
	},
}

// defaultPosts 岗位类型 → 岗位名
var defaultPosts = []struct{ typeName, postName string }{
	{model.PostTypeSOG, "SOG"},
	{model.PostTypeCQ, "CQ"},
	{model.PostTypeECP, "ECP1"},
	{model.PostTypeECP, "ECP2"},
	{model.PostTypeECP, "ECP3"},
	{model.PostTypeVCP, "VCP"},
	{model.PostTypeRover, "ROVER"},
	{model.PostTypeStandBy, "Stand by"},
}

// ────────────────────── 岗位类型 ──────────────────────

func (s *postService) ListTypes(ctx context.Context) ([]dto.PostTypeResponse, error) {
	types, err := s.repo.Post.ListTypes(ctx)
	if err != nil {
		s.logger.Error("列出岗位类型失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.PostTypeResponse, 0, len(types))
	for i := range types {
		result = append(result, toPostTypeResponse(&types[i]))
	}
	return result, nil
}

func (s *postService) CreateType(ctx context.Context, req *dto.CreatePostTypeRequest) (*dto.PostTypeResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.NewValidationError("name", "岗位类型名不能为空")
	}
	if err := validateShiftWindow(req.ShiftStart, req.ShiftEnd); err != nil {
		return nil, err
	}

	_, err := s.repo.Post.GetTypeByName(ctx, name)
	if err == nil {
		return nil, ErrPostTypeExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询岗位类型失败", zap.Error(err))
		return nil, err
	}

	pt := &model.PostType{
		Name:              name,
		Description:       req.Description,
		EquipmentRequired: model.EquipmentList(req.EquipmentRequired),
		MeetingTime:       req.MeetingTime,
		MeetingLocation:   req.MeetingLocation,
		PersonnelRequired: req.PersonnelRequired,
		ShiftStart:        req.ShiftStart,
		ShiftEnd:          req.ShiftEnd,
	}
	if pt.PersonnelRequired <= 0 {
		pt.PersonnelRequired = 1
	}
	if err := s.repo.Post.CreateType(ctx, pt); err != nil {
		s.logger.Error("创建岗位类型失败", zap.Error(err))
		return nil, err
	}

	resp := toPostTypeResponse(pt)
	return &resp, nil
}

// ────────────────────── 岗位 ──────────────────────

func (s *postService) ListPosts(ctx context.Context) ([]dto.PostResponse, error) {
	posts, err := s.repo.Post.ListPosts(ctx, false)
	if err != nil {
		s.logger.Error("列出岗位失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		result = append(result, toPostResponse(&posts[i]))
	}
	return result, nil
}

func (s *postService) CreatePost(ctx context.Context, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.NewValidationError("name", "岗位名不能为空")
	}

	pt, err := s.repo.Post.GetTypeByID(ctx, req.PostTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostTypeNotFound
		}
		s.logger.Error("查询岗位类型失败", zap.Error(err))
		return nil, err
	}

	_, err = s.repo.Post.GetPostByTypeAndName(ctx, pt.PostTypeID, name)
	if err == nil {
		return nil, ErrPostExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询岗位失败", zap.Error(err))
		return nil, err
	}

	post := &model.Post{Name: name, PostTypeID: pt.PostTypeID, IsActive: true}
	if err := s.repo.Post.CreatePost(ctx, post); err != nil {
		s.logger.Error("创建岗位失败", zap.Error(err))
		return nil, err
	}
	post.PostType = pt

	resp := toPostResponse(post)
	return &resp, nil
}

// ────────────────────── SetupDefaults ──────────────────────

func (s *postService) SetupDefaults(ctx context.Context) (*dto.SetupPostsResponse, error) {
	result := &dto.SetupPostsResponse{}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		typeIDs := make(map[string]string, len(defaultPostTypes))
		for _, def := range defaultPostTypes {
			pt, err := tx.Post.GetTypeByName(ctx, def.Name)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				created := def
				created.EquipmentRequired = append(model.EquipmentList{}, def.EquipmentRequired...)
				if err := tx.Post.CreateType(ctx, &created); err != nil {
					return err
				}
				pt = &created
				result.PostTypesCreated++
			} else if err != nil {
				return err
			}
			typeIDs[def.Name] = pt.PostTypeID
		}

		for _, def := range defaultPosts {
			typeID := typeIDs[def.typeName]
			_, err := tx.Post.GetPostByTypeAndName(ctx, typeID, def.postName)
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Post.CreatePost(ctx, &model.Post{Name: def.postName, PostTypeID: typeID, IsActive: true}); err != nil {
				return err
			}
			result.PostsCreated++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("初始化标准岗位失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("标准岗位初始化完成",
		zap.Int("post_types_created", result.PostTypesCreated),
		zap.Int("posts_created", result.PostsCreated),
	)
	return result, nil
}

// ── 内部辅助 ──

// validateShiftWindow 额定班次要么都为空，要么都是 HH:MM 且开始早于结束
func validateShiftWindow(start, end string) error {
	if start == "" && end == "" {
		return nil
	}
	s, ok := clockMinutes(start)
	if !ok {
		return pkgerrors.NewValidationError("shift_start", "时间格式应为 HH:MM")
	}
	e, ok := clockMinutes(end)
	if !ok {
		return pkgerrors.NewValidationError("shift_end", "时间格式应为 HH:MM")
	}
	if s >= e {
		return pkgerrors.NewValidationError("shift_end", "结束时间必须晚于开始时间")
	}
	return nil
}

func toPostTypeResponse(pt *model.PostType) dto.PostTypeResponse {
	equipment := []string(pt.EquipmentRequired)
	if equipment == nil {
		equipment = []string{}
	}
	return dto.PostTypeResponse{
		ID:                pt.PostTypeID,
		Name:              pt.Name,
		Description:       pt.Description,
		EquipmentRequired: equipment,
		MeetingTime:       pt.MeetingTime,
		MeetingLocation:   pt.MeetingLocation,
		PersonnelRequired: pt.PersonnelRequired,
		ShiftStart:        pt.ShiftStart,
		ShiftEnd:          pt.ShiftEnd,
	}
}

func toPostResponse(p *model.Post) dto.PostResponse {
	resp := dto.PostResponse{ID: p.PostID, Name: p.Name, IsActive: p.IsActive}
	if p.PostType != nil {
		pt := toPostTypeResponse(p.PostType)
		resp.PostType = &pt
	}
	return resp
}

func toPostBrief(p *model.Post) *dto.PostBrief {
	if p == nil {
		return nil
	}
	return &dto.PostBrief{ID: p.PostID, Name: p.Name, PostType: p.TypeName()}
}
