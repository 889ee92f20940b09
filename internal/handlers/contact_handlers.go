package handlers

import (
	"opsmanual/internal/services"

	"github.com/labstack/echo/v4"
)

// ContactHandlers serves contact groups and their contacts.
type ContactHandlers struct {
	contactService services.ContactService
}

func NewContactHandlers(contactService services.ContactService) *ContactHandlers {
	return &ContactHandlers{contactService: contactService}
}

func (h *ContactHandlers) ListGroups(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	airlineID, err := queryAirlineID(c)
	if err != nil {
		return err
	}
	groups, err := h.contactService.ListGroups(c.Request().Context(), identity, airlineID, includeInactive(c))
	if err != nil {
		return err
	}
	return list(c, groups)
}

func (h *ContactHandlers) GetGroup(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "group_id")
	if err != nil {
		return err
	}
	group, err := h.contactService.GetGroup(c.Request().Context(), identity, id)
	if err != nil {
		return err
	}
	return ok(c, group)
}

func (h *ContactHandlers) CreateGroup(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req services.CreateContactGroupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	group, err := h.contactService.CreateGroup(c.Request().Context(), identity, &req)
	if err != nil {
		return err
	}
	return created(c, group)
}

func (h *ContactHandlers) UpdateGroup(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "group_id")
	if err != nil {
		return err
	}
	var req services.UpdateContactGroupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	group, err := h.contactService.UpdateGroup(c.Request().Context(), identity, id, &req)
	if err != nil {
		return err
	}
	return ok(c, group)
}

// DeleteGroup refuses groups that still hold contacts.
func (h *ContactHandlers) DeleteGroup(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "group_id")
	if err != nil {
		return err
	}
	if err := h.contactService.DeleteGroup(c.Request().Context(), identity, id); err != nil {
		return err
	}
	return message(c, "Contact group deleted successfully")
}

func (h *ContactHandlers) ListContacts(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	groupID, err := pathID(c, "group_id")
	if err != nil {
		return err
	}
	contacts, err := h.contactService.ListContacts(c.Request().Context(), identity, groupID, includeInactive(c))
	if err != nil {
		return err
	}
	return list(c, contacts)
}

func (h *ContactHandlers) GetContact(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "contact_id")
	if err != nil {
		return err
	}
	contact, err := h.contactService.GetContact(c.Request().Context(), identity, id)
	if err != nil {
		return err
	}
	return ok(c, contact)
}

// CreateContact adds a contact to the group named in the path.
func (h *ContactHandlers) CreateContact(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	groupID, err := pathID(c, "group_id")
	if err != nil {
		return err
	}
	var req services.ContactRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	req.GroupID = groupID

	contact, err := h.contactService.CreateContact(c.Request().Context(), identity, &req)
	if err != nil {
		return err
	}
	return created(c, contact)
}

func (h *ContactHandlers) UpdateContact(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "contact_id")
	if err != nil {
		return err
	}
	var req services.UpdateContactRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	contact, err := h.contactService.UpdateContact(c.Request().Context(), identity, id, &req)
	if err != nil {
		return err
	}
	return ok(c, contact)
}

func (h *ContactHandlers) DeleteContact(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "contact_id")
	if err != nil {
		return err
	}
	if err := h.contactService.DeleteContact(c.Request().Context(), identity, id); err != nil {
		return err
	}
	return message(c, "Contact deleted successfully")
}
