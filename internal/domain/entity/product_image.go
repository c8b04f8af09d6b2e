package entity

import "time"

// ProductImage imagen de un producto. ID es la clave del objeto en el almacenamiento.
// CommerceML distingue las imágenes que llegan del ERP de las subidas por usuarios.
type ProductImage struct {
	ID         string
	ProductID  string
	URL        string
	CommerceML bool
	CreatedAt  time.Time
}
