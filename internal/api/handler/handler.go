package handler

import "duty-tracker/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Person       *PersonHandler
	Post         *PostHandler
	Assignment   *AssignmentHandler
	Fairness     *FairnessHandler
	Distribution *DistributionHandler
	Import       *ImportHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Person:       NewPersonHandler(svc.Person),
		Post:         NewPostHandler(svc.Post),
		Assignment:   NewAssignmentHandler(svc.Assignment),
		Fairness:     NewFairnessHandler(svc.Fairness),
		Distribution: NewDistributionHandler(svc.Distribution),
		Import:       NewImportHandler(svc.Import),
		Export:       NewExportHandler(svc.Export),
	}
}
