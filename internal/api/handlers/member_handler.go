package handlers

import (
	"net/http"

	"github.com/Marga-Ghale/org-portal-backend/internal/api/middleware"
	"github.com/Marga-Ghale/org-portal-backend/internal/auth"
	"github.com/Marga-Ghale/org-portal-backend/internal/models"
	"github.com/Marga-Ghale/org-portal-backend/internal/service"
	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	memberService service.MemberService
	roleService   service.RoleService
	errs          *errorResponder
}

// Me returns the caller's own roster entry and hours
func (h *MemberHandler) Me(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	member, err := h.memberService.GetByEmail(c.Request.Context(), principal.Email)
	if err != nil {
		h.errs.respond(c, err, "Failed to fetch member")
		return
	}
	response := toMemberResponse(member)
	response.Role = string(middleware.GetRole(c))
	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.memberService.List(c.Request.Context())
	if err != nil {
		h.errs.respond(c, err, "Failed to fetch members")
		return
	}

	response := make([]models.MemberResponse, len(members))
	for i, m := range members {
		response[i] = toMemberResponse(m)
	}
	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) AdjustHours(c *gin.Context) {
	id, ok := parseID(c, "memberId")
	if !ok {
		return
	}

	var req models.AdjustHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	member, err := h.memberService.AdjustHours(c.Request.Context(), id, req.HoursType, req.Delta)
	if err != nil {
		h.errs.respond(c, err, "Failed to adjust hours")
		return
	}
	c.JSON(http.StatusOK, toMemberResponse(member))
}

// SetRole assigns an organization role to an email. The cached role for that
// email is dropped so the change applies on the next request.
func (h *MemberHandler) SetRole(c *gin.Context) {
	var req models.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.roleService.SetRole(c.Request.Context(), req.Email, auth.Role(req.Role)); err != nil {
		h.errs.respond(c, err, "Failed to set role")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Role updated"})
}
