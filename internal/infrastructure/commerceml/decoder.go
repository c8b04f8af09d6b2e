// Package commerceml decodifica documentos CommerceML (import.xml y offers.xml) en dos etapas:
// primero un árbol genérico con etree y después la proyección a las estructuras de document.
package commerceml

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/catalog-exchange/internal/domain"
	"github.com/jhoicas/catalog-exchange/internal/domain/document"
)

// Nombres de elementos CommerceML.
const (
	tagRoot          = "КоммерческаяИнформация"
	tagCatalog       = "Каталог"
	tagOnlyChanges   = "СодержитТолькоИзменения"
	tagProducts      = "Товары"
	tagProduct       = "Товар"
	tagID            = "Ид"
	tagName          = "Наименование"
	tagNumber        = "Артикул"
	tagDescription   = "Описание"
	tagUnit          = "БазоваяЕдиница"
	tagUnitFullName  = "НаименованиеПолное"
	tagManufacturer  = "Изготовитель"
	tagBrandNumber   = "АртикулПроизводителя"
	tagPicture       = "Картинка"
	tagDeleteMark    = "ПометкаУдаления"
	tagStatus        = "Статус"
	statusDeleted    = "Удален"
	tagPackage       = "ПакетПредложений"
	tagStocks        = "Склады"
	tagStock         = "Склад"
	tagPriceTypes    = "ТипыЦен"
	tagPriceType     = "ТипЦены"
	tagCurrency      = "Валюта"
	tagOffers        = "Предложения"
	tagOffer         = "Предложение"
	tagPrices        = "Цены"
	tagPrice         = "Цена"
	tagPriceTypeID   = "ИдТипаЦены"
	tagPricePerUnit  = "ЦенаЗаЕдиницу"
	tagBalances      = "Остатки"
	tagBalance       = "Остаток"
	tagQuantity      = "Количество"
	attrLegacyStock  = "ИдСклада"
	attrLegacyAmount = "КоличествоНаСкладе"
)

// Decoder implementa la decodificación de documentos CommerceML.
type Decoder struct{}

// NewDecoder crea el decodificador.
func NewDecoder() *Decoder { return &Decoder{} }

// readTree primera etapa: árbol genérico, respetando la codificación declarada.
func readTree(r io.Reader) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("commerceml: parsear XML: %w: %v", domain.ErrInvalidDocument, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != tagRoot {
		return nil, fmt.Errorf("commerceml: raíz %s ausente: %w", tagRoot, domain.ErrInvalidDocument)
	}
	return root, nil
}

// charsetReader soporta las codificaciones que usan los ERP además de UTF-8.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8":
		return input, nil
	case "windows-1251", "cp1251":
		return transform.NewReader(input, charmap.Windows1251.NewDecoder()), nil
	case "iso-8859-1", "latin1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	}
	return nil, fmt.Errorf("commerceml: codificación no soportada %q", label)
}

// DecodeCatalog decodifica un import.xml.
func (d *Decoder) DecodeCatalog(r io.Reader) (*document.Catalog, error) {
	root, err := readTree(r)
	if err != nil {
		return nil, err
	}
	cat := &document.Catalog{Products: []document.Product{}}
	for _, catalog := range root.SelectElements(tagCatalog) {
		partial := onlyChanges(catalog)
		cat.OnlyChanges = cat.OnlyChanges || partial
		products := catalog.SelectElement(tagProducts)
		if products == nil {
			continue
		}
		for _, el := range products.SelectElements(tagProduct) {
			p := projectProduct(el)
			p.OnlyChanges = partial
			cat.Products = append(cat.Products, p)
		}
	}
	return cat, nil
}

// onlyChanges lee СодержитТолькоИзменения como elemento y, si falta, como atributo.
func onlyChanges(el *etree.Element) bool {
	if child := el.SelectElement(tagOnlyChanges); child != nil {
		return parseBool(child.Text())
	}
	return parseBool(el.SelectAttrValue(tagOnlyChanges, ""))
}

func projectProduct(el *etree.Element) document.Product {
	externalID := childText(el, tagID)
	productID, characteristicID := document.SplitID(externalID)
	p := document.Product{
		ExternalID:       externalID,
		ProductID:        productID,
		CharacteristicID: characteristicID,
		Name:             childText(el, tagName),
		Number:           childText(el, tagNumber),
		Description:      childText(el, tagDescription),
		BrandNumber:      childText(el, tagBrandNumber),
		Images:           []string{},
	}
	if unit := el.SelectElement(tagUnit); unit != nil {
		p.Unit = strings.TrimSpace(unit.SelectAttrValue(tagUnitFullName, ""))
		if p.Unit == "" {
			p.Unit = strings.TrimSpace(unit.Text())
		}
	}
	if m := el.SelectElement(tagManufacturer); m != nil {
		p.Brand = childText(m, tagName)
	}
	for _, pic := range el.SelectElements(tagPicture) {
		if path := strings.TrimSpace(pic.Text()); path != "" {
			p.Images = append(p.Images, path)
		}
	}
	p.Archive = parseBool(childText(el, tagDeleteMark)) || childText(el, tagStatus) == statusDeleted
	return p
}

// DecodeOffers decodifica un offers.xml.
func (d *Decoder) DecodeOffers(r io.Reader) (*document.Offers, error) {
	root, err := readTree(r)
	if err != nil {
		return nil, err
	}
	out := &document.Offers{Packages: []document.OfferPackage{}}
	for _, el := range root.SelectElements(tagPackage) {
		if onlyChanges(el) {
			out.OnlyChanges = true
		}
		out.Packages = append(out.Packages, projectPackage(el))
	}
	return out, nil
}

func projectPackage(el *etree.Element) document.OfferPackage {
	pkg := document.OfferPackage{
		Stocks:     []document.Stock{},
		PriceTypes: []document.PriceType{},
		Offers:     []document.Offer{},
	}
	if stocks := el.SelectElement(tagStocks); stocks != nil {
		for _, s := range stocks.SelectElements(tagStock) {
			pkg.Stocks = append(pkg.Stocks, document.Stock{
				ExternalID: childText(s, tagID),
				Name:       childText(s, tagName),
			})
		}
	}
	if types := el.SelectElement(tagPriceTypes); types != nil {
		for _, t := range types.SelectElements(tagPriceType) {
			pkg.PriceTypes = append(pkg.PriceTypes, document.PriceType{
				ExternalID: childText(t, tagID),
				Name:       childText(t, tagName),
				Currency:   childText(t, tagCurrency),
			})
		}
	}
	if offers := el.SelectElement(tagOffers); offers != nil {
		for _, o := range offers.SelectElements(tagOffer) {
			pkg.Offers = append(pkg.Offers, projectOffer(o))
		}
	}
	return pkg
}

func projectOffer(el *etree.Element) document.Offer {
	externalID := childText(el, tagID)
	productID, characteristicID := document.SplitID(externalID)
	o := document.Offer{
		ExternalID:       externalID,
		ProductID:        productID,
		CharacteristicID: characteristicID,
		Number:           childText(el, tagNumber),
		Name:             childText(el, tagName),
		Balances:         []document.Balance{},
		Prices:           []document.Price{},
		Rejected:         []string{},
	}
	if prices := el.SelectElement(tagPrices); prices != nil {
		for _, p := range prices.SelectElements(tagPrice) {
			typeID := childText(p, tagPriceTypeID)
			amount, err := document.ParseAmount(childText(p, tagPricePerUnit))
			if err != nil {
				o.Rejected = append(o.Rejected, fmt.Sprintf("price %s: %v", typeID, err))
				continue
			}
			o.Prices = append(o.Prices, document.Price{PriceTypeID: typeID, Amount: amount})
		}
	}
	if balances := el.SelectElement(tagBalances); balances != nil {
		for _, b := range balances.SelectElements(tagBalance) {
			st := b.SelectElement(tagStock)
			if st == nil {
				continue
			}
			addBalance(&o, childText(st, tagID), childText(st, tagQuantity))
		}
	}
	// Forma antigua: <Склад ИдСклада="..." КоличествоНаСкладе="..."/> directamente en la oferta.
	for _, st := range el.SelectElements(tagStock) {
		id := st.SelectAttrValue(attrLegacyStock, "")
		if id == "" {
			continue
		}
		addBalance(&o, id, st.SelectAttrValue(attrLegacyAmount, ""))
	}
	return o
}

func addBalance(o *document.Offer, stockID, raw string) {
	qty, err := document.ParseAmount(raw)
	if err != nil {
		o.Rejected = append(o.Rejected, fmt.Sprintf("stock %s: %v", stockID, err))
		return
	}
	o.Balances = append(o.Balances, document.Balance{StockID: stockID, Quantity: qty})
}

func childText(el *etree.Element, tag string) string {
	if c := el.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "да":
		return true
	}
	return false
}
