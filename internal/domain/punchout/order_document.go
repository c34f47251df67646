package punchout

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// orderRequestTemplate is the cXML OrderRequest skeleton. Placeholders are
// %name% tokens substituted by literal text replacement.
//
// Substituted values are NOT escaped. That is acceptable only because this
// is a mock service; anything production-grade must build the XML with a
// proper encoder to rule out XSS/XXE/XEE.
const orderRequestTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE cXML SYSTEM "http://xml.cxml.org/schemas/cXML/1.2.014/cXML.dtd">
<cXML payloadID="%unique-id%" timestamp="%timestamp%">
    <Header>
        <From>
            <Credential domain="SystemID">
                <Identity>nobody cares</Identity>
                <SharedSecret>%cxml-order-request-token%</SharedSecret>
            </Credential>
        </From>
        <To>
            <Credential domain="NetworkId">
                <Identity>punchout.crowdfox.test</Identity>
            </Credential>
        </To>
        <Sender>
            <Credential domain="NetworkId">
                <Identity>customer-system</Identity>
            </Credential>
            <UserAgent>A cXML installation</UserAgent>
        </Sender>
    </Header>
    <Request>
        <OrderRequest>
            <OrderRequestHeader orderID="%order-id%" orderDate="%order-date%">
                <Total>
                    <Money currency="EUR">%order-amount%</Money>
                </Total>
                <ShipTo>
                    <Address>
                        <Name xml:lang="de">%ship-to-final-client-name%</Name>
                        <PostalAddress>
                            <DeliverTo>%ship-to-deliver-to%</DeliverTo>
                            <Street>%ship-to-street%</Street>
                            <City>%ship-to-city%</City>
                            <PostalCode>%ship-to-postal%</PostalCode>
                            <Country isoCountryCode="%ship-to-country-code%">%ship-to-country%</Country>
                        </PostalAddress>
                    </Address>
                </ShipTo>
                <BillTo>
                    <Address>
                        <Name xml:lang="de">%bill-to-final-client-name%</Name>
                        <PostalAddress>
                            <DeliverTo>%bill-to-deliver-to%</DeliverTo>
                            <Street>%bill-to-street%</Street>
                            <City>%bill-to-city%</City>
                            <PostalCode>%bill-to-postal%</PostalCode>
                            <Country isoCountryCode="%bill-to-country-code%">%bill-to-country%</Country>
                        </PostalAddress>
                        <Email>me@example.com</Email>
                    </Address>
                </BillTo>
            </OrderRequestHeader>
            <ItemOut quantity="10">
                <ItemID>
                    <SupplierPartID>%item-supplier-part-id%</SupplierPartID>
                    <SupplierPartAuxiliaryID>%item-supplier-auxiliary-id%</SupplierPartAuxiliaryID>
                </ItemID>
                <ItemDetail>
                    <UnitPrice>
                        <Money currency="EUR">%item-price%</Money>
                    </UnitPrice>
                    <Description xml:lang="%item-language-code%">%item-description%</Description>
                    <UnitOfMeasure>H87</UnitOfMeasure> <!-- H87 = piece -->
                    <Classification domain="SupplierPartID">%item-supplier-part-id%</Classification>
                </ItemDetail>
            </ItemOut>
        </OrderRequest>
    </Request>
</cXML>
`

// Deterministic id suffixes derived from the process id.
const (
	orderIDSuffix     = "-order"
	auxiliaryIDSuffix = "-aux"

	itemLanguageCode = "de"
)

// Address is one fixed mock postal address block for the order document.
type Address struct {
	FinalClientName string
	DeliverTo       string
	Street          string
	City            string
	PostalCode      string
	CountryCode     string
	Country         string
}

// Fixed mock addresses. A real buyer system would pull these from master
// data; the confirmation endpoint only needs plausible values.
var (
	mockShipTo = Address{
		FinalClientName: "Erika Mustermann",
		DeliverTo:       "Wareneingang Tor 3",
		Street:          "Musterstrasse 12",
		City:            "Koeln",
		PostalCode:      "50667",
		CountryCode:     "DE",
		Country:         "Germany",
	}
	mockBillTo = Address{
		FinalClientName: "Mustermann GmbH",
		DeliverTo:       "Buchhaltung",
		Street:          "Domkloster 4",
		City:            "Koeln",
		PostalCode:      "50667",
		CountryCode:     "DE",
		Country:         "Germany",
	}
)

// SynthesizeOrderDocument renders the cXML order request for a confirmed
// punch-out process. It generates a fresh payload id and timestamp on every
// call; everything else is deterministic in its inputs. The order-request
// token is echoed into the document as the shared secret that authenticates
// it to the confirmation endpoint.
func SynthesizeOrderDocument(fields *CallUpFields, processID, orderRequestToken string) string {
	now := time.Now().UTC().Format(time.RFC3339)

	r := strings.NewReplacer(
		"%unique-id%", uuid.NewString(),
		"%timestamp%", now,
		"%cxml-order-request-token%", orderRequestToken,
		"%order-id%", processID+orderIDSuffix,
		"%order-date%", now,
		"%order-amount%", fields.TotalAmount.String(),
		"%ship-to-final-client-name%", mockShipTo.FinalClientName,
		"%ship-to-deliver-to%", mockShipTo.DeliverTo,
		"%ship-to-street%", mockShipTo.Street,
		"%ship-to-city%", mockShipTo.City,
		"%ship-to-postal%", mockShipTo.PostalCode,
		"%ship-to-country-code%", mockShipTo.CountryCode,
		"%ship-to-country%", mockShipTo.Country,
		"%bill-to-final-client-name%", mockBillTo.FinalClientName,
		"%bill-to-deliver-to%", mockBillTo.DeliverTo,
		"%bill-to-street%", mockBillTo.Street,
		"%bill-to-city%", mockBillTo.City,
		"%bill-to-postal%", mockBillTo.PostalCode,
		"%bill-to-country-code%", mockBillTo.CountryCode,
		"%bill-to-country%", mockBillTo.Country,
		"%item-supplier-part-id%", fields.ProductID,
		"%item-supplier-auxiliary-id%", processID+auxiliaryIDSuffix,
		"%item-price%", fields.FirstItemPrice.String(),
		"%item-description%", fields.Description,
		"%item-language-code%", itemLanguageCode,
	)

	return r.Replace(orderRequestTemplate)
}
