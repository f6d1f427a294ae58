package handler

import (
	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/common/dto"
)

func userInfo(u *database.User) dto.UserInfo {
	info := dto.UserInfo{
		ID:    u.ID,
		Email: u.Email,
		Phone: u.Phone,
		Role:  string(u.Role),
	}
	if u.Member != nil {
		info.Member = &dto.MemberInfo{
			ID:               u.Member.ID,
			Name:             u.Member.Name,
			CustomFieldValue: u.Member.CustomFieldValue,
			Active:           u.Member.Active,
		}
	}
	return info
}

func associationInfo(a *database.Association) *dto.AssociationInfo {
	if a == nil {
		return nil
	}
	return &dto.AssociationInfo{ID: a.ID, Name: a.Name, Type: a.Type, Code: a.Code}
}

func adminInfo(u *database.User) dto.AdminInfo {
	return dto.AdminInfo{
		ID:        u.ID,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// memberView flattens a MEMBER user; the access token is kept for admins only
func memberView(u *database.User, withToken bool) dto.Member {
	v := dto.Member{
		ID:        u.ID,
		Email:     u.Email,
		Phone:     u.Phone,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if withToken {
		v.Token = u.Token
	}
	if u.Member != nil {
		v.MemberID = u.Member.ID
		v.Name = u.Member.Name
		v.CustomFieldValue = u.Member.CustomFieldValue
	}
	return v
}
