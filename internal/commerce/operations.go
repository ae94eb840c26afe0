package commerce

// GraphQL documents for the fixed commerce contract. Shapes mirror the
// backend schema; adapters in the domain packages translate the responses.

const QueryProducts = `
  query GetProducts($first: Int!, $channel: String!) {
    products(first: $first, channel: $channel) {
      edges {
        node {
          id
          name
          slug
          description
          thumbnail {
            url
            alt
          }
          pricing {
            priceRange {
              start {
                gross {
                  amount
                  currency
                }
              }
            }
          }
          category {
            id
            name
          }
        }
      }
    }
  }
`

const QueryProductBySlug = `
  query GetProductBySlug($slug: String!, $channel: String!) {
    product(slug: $slug, channel: $channel) {
      id
      name
      slug
      description
      thumbnail {
        url
        alt
      }
      pricing {
        priceRange {
          start {
            gross {
              amount
              currency
            }
          }
        }
      }
      category {
        id
        name
      }
    }
  }
`

const MutationCheckoutCreate = `
  mutation CreateCheckout($input: CheckoutCreateInput!) {
    checkoutCreate(input: $input) {
      checkout {
        id
        email
        lines {
          id
          quantity
        }
        totalPrice {
          gross {
            amount
            currency
          }
        }
      }
      errors {
        field
        message
      }
    }
  }
`

const MutationCheckoutLinesAdd = `
  mutation AddToCheckout($checkoutId: ID!, $lines: [CheckoutLineInput!]!) {
    checkoutLinesAdd(checkoutId: $checkoutId, lines: $lines) {
      checkout {
        id
        lines {
          id
          quantity
        }
        totalPrice {
          gross {
            amount
            currency
          }
        }
      }
      errors {
        field
        message
      }
    }
  }
`

const MutationCheckoutLinesUpdate = `
  mutation UpdateCheckoutLine($checkoutId: ID!, $lines: [CheckoutLineUpdateInput!]!) {
    checkoutLinesUpdate(checkoutId: $checkoutId, lines: $lines) {
      checkout {
        id
        lines {
          id
          quantity
        }
        totalPrice {
          gross {
            amount
            currency
          }
        }
      }
      errors {
        field
        message
      }
    }
  }
`

const MutationCheckoutLinesDelete = `
  mutation RemoveFromCheckout($checkoutId: ID!, $lineIds: [ID!]!) {
    checkoutLinesDelete(checkoutId: $checkoutId, linesIds: $lineIds) {
      checkout {
        id
        lines {
          id
          quantity
        }
        totalPrice {
          gross {
            amount
            currency
          }
        }
      }
      errors {
        field
        message
      }
    }
  }
`

const MutationCheckoutComplete = `
  mutation CompleteCheckout($checkoutId: ID!) {
    checkoutComplete(checkoutId: $checkoutId) {
      order {
        id
        number
        created
        status
      }
      errors {
        field
        message
      }
    }
  }
`

const QueryCheckout = `
  query GetCheckout($id: ID!) {
    checkout(id: $id) {
      id
      email
      lines {
        id
        quantity
        variant {
          id
          name
          product {
            id
            name
            thumbnail {
              url
            }
          }
          pricing {
            price {
              gross {
                amount
                currency
              }
            }
          }
        }
      }
      totalPrice {
        gross {
          amount
          currency
        }
      }
      shippingAddress {
        firstName
        lastName
        streetAddress1
        streetAddress2
        city
        postalCode
        country {
          code
        }
        phone
      }
      billingAddress {
        firstName
        lastName
        streetAddress1
        streetAddress2
        city
        postalCode
        country {
          code
        }
        phone
      }
    }
  }
`

const QueryUserOrders = `
  query GetUserOrders($first: Int!) {
    me {
      id
      orders(first: $first) {
        edges {
          node {
            id
            number
            created
            status
            total {
              gross {
                amount
                currency
              }
            }
          }
        }
      }
    }
  }
`

const QueryOrderByID = `
  query GetOrderDetails($id: ID!) {
    order(id: $id) {
      id
      number
      created
      status
      total {
        gross {
          amount
          currency
        }
      }
      lines {
        id
        productName
        variantName
        quantity
        totalPrice {
          gross {
            amount
            currency
          }
        }
        thumbnail {
          url
        }
      }
      shippingAddress {
        firstName
        lastName
        streetAddress1
        streetAddress2
        city
        postalCode
        country {
          code
        }
        phone
      }
      billingAddress {
        firstName
        lastName
        streetAddress1
        streetAddress2
        city
        postalCode
        country {
          code
        }
        phone
      }
    }
  }
`

// CheckoutLineInput is the add-line wire shape.
type CheckoutLineInput struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// CheckoutLineUpdateInput is the update-line wire shape.
type CheckoutLineUpdateInput struct {
	LineID   string `json:"lineId"`
	Quantity int    `json:"quantity"`
}
