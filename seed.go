package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"

	"go-shopping/config"
	"go-shopping/usecase"

	"github.com/spf13/cobra"
)

type seedOptions struct {
	Email    string
	Password string
	Products int
}

var defaultSeed = seedOptions{Email: "seller@example.com", Password: "seller123", Products: 5}

var seedFlags = defaultSeed

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo seller with products",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		app, err := newApplication(cmd.Context(), cfg, newLogger(cfg))
		if err != nil {
			return err
		}
		defer app.Close(context.Background())
		return seedDemo(cmd.Context(), app, seedFlags)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFlags.Email, "email", defaultSeed.Email, "seller email")
	seedCmd.Flags().StringVar(&seedFlags.Password, "password", defaultSeed.Password, "seller password")
	seedCmd.Flags().IntVar(&seedFlags.Products, "products", defaultSeed.Products, "number of products to create")
	rootCmd.AddCommand(seedCmd)
}

// seedDemo registers (or logs in) the demo seller and lists products for it
// through the same usecases the API uses
func seedDemo(ctx context.Context, app *application, opts seedOptions) error {
	_, err := app.auth.Register(ctx, usecase.RegisterInput{
		FirstName:       "Demo",
		LastName:        "Seller",
		Email:           opts.Email,
		Password:        opts.Password,
		ConfirmPassword: opts.Password,
		TermsAccepted:   true,
	})
	if err != nil && !errors.Is(err, usecase.ErrEmailTaken) {
		return fmt.Errorf("seed seller: %w", err)
	}
	login, err := app.auth.Login(ctx, usecase.LoginInput{Email: opts.Email, Password: opts.Password})
	if err != nil {
		return fmt.Errorf("seed seller: %w", err)
	}
	if login.Next == usecase.NextProfile {
		if _, err := app.profile.UpdateProfile(ctx, login.User.ID, usecase.ProfileInput{Mobile: "70000000"}, nil); err != nil {
			return fmt.Errorf("seed profile: %w", err)
		}
	}

	for i := 1; i <= opts.Products; i++ {
		img, err := placeholderPNG(i)
		if err != nil {
			return err
		}
		p, err := app.products.AddProduct(ctx, login.User.ID, usecase.AddProductInput{
			Title:         "Demo product " + strconv.Itoa(i),
			Price:         strconv.Itoa(100 * i),
			Description:   "Seeded demo product",
			StockQuantity: strconv.Itoa(10 * i),
		}, &usecase.Upload{Filename: "demo.png", Body: bytes.NewReader(img)})
		if err != nil {
			return fmt.Errorf("seed product %d: %w", i, err)
		}
		app.log.WithField("product_id", p.ID).WithField("title", p.Title).Info("seeded product")
	}
	app.log.WithField("email", opts.Email).WithField("products", opts.Products).Info("seed complete")
	return nil
}

// placeholderPNG draws a small single colour square
func placeholderPNG(n int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	c := color.RGBA{R: uint8(40 * n), G: 120, B: 200, A: 255}
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}
