package usecase

import (
	"context"
	"fmt"

	"go-shopping/gateway"
	"go-shopping/models"
)

type AddressInput struct {
	Name           string `json:"name" validate:"required"`
	MobileNumber   string `json:"mobileNumber" validate:"required"`
	Address        string `json:"address" validate:"required"`
	ZipCode        string `json:"zipCode" validate:"required"`
	AdditionalNote string `json:"additionalNote"`
	Type           string `json:"type" validate:"omitempty,oneof=Home Office Other"`
	OtherDetails   string `json:"otherDetails"`
}

func (in *AddressInput) check() error {
	trim(&in.Name, &in.MobileNumber, &in.Address, &in.ZipCode, &in.AdditionalNote, &in.Type, &in.OtherDetails)
	if in.Type == "" {
		in.Type = models.AddressHome
	}
	if err := validateInput(in); err != nil {
		return err
	}
	if in.Type == models.AddressOther && in.OtherDetails == "" {
		return invalid("otherDetails", "Please enter other details.")
	}
	return nil
}

func (in AddressInput) toModel(userID string) models.Address {
	a := models.Address{
		UserID:         userID,
		Name:           in.Name,
		MobileNumber:   in.MobileNumber,
		Address:        in.Address,
		ZipCode:        in.ZipCode,
		AdditionalNote: in.AdditionalNote,
		Type:           in.Type,
	}
	if in.Type == models.AddressOther {
		a.OtherDetails = in.OtherDetails
	}
	return a
}

type AddressUsecase struct {
	gw *gateway.Gateway
}

func NewAddressUsecase(gw *gateway.Gateway) *AddressUsecase {
	return &AddressUsecase{gw: gw}
}

func (u *AddressUsecase) Addresses(ctx context.Context, userID string) ([]models.Address, error) {
	out, err := u.gw.Addresses.Find(ctx, gateway.Eq("user_id", userID))
	if err != nil {
		return nil, fmt.Errorf("load addresses: %w", err)
	}
	return out, nil
}

func (u *AddressUsecase) AddAddress(ctx context.Context, userID string, in AddressInput) (models.Address, error) {
	if err := in.check(); err != nil {
		return models.Address{}, err
	}
	a := in.toModel(userID)
	id, err := u.gw.Addresses.Create(ctx, a)
	if err != nil {
		return models.Address{}, fmt.Errorf("add address: %w", err)
	}
	a.ID = id
	return a, nil
}

func (u *AddressUsecase) UpdateAddress(ctx context.Context, userID, addressID string, in AddressInput) (models.Address, error) {
	if err := in.check(); err != nil {
		return models.Address{}, err
	}
	if _, err := ownAddress(ctx, u.gw, userID, addressID); err != nil {
		return models.Address{}, err
	}
	a := in.toModel(userID)
	a.ID = addressID
	if err := u.gw.Addresses.Save(ctx, addressID, a); err != nil {
		return models.Address{}, fmt.Errorf("update address: %w", err)
	}
	return a, nil
}

func (u *AddressUsecase) DeleteAddress(ctx context.Context, userID, addressID string) error {
	if _, err := ownAddress(ctx, u.gw, userID, addressID); err != nil {
		return err
	}
	return u.gw.Addresses.Delete(ctx, addressID)
}

func ownAddress(ctx context.Context, gw *gateway.Gateway, userID, addressID string) (models.Address, error) {
	a, err := gw.Addresses.Get(ctx, addressID)
	if err != nil {
		return models.Address{}, err
	}
	if a.UserID != userID {
		return models.Address{}, fmt.Errorf("address %s: %w", addressID, gateway.ErrNotFound)
	}
	return a, nil
}
