package storefront

const productFields = `
  id
  title
  handle
  description
  tags
  vendor
  productType
  createdAt
  updatedAt
  options { id name values }
  images(first: 10) { edges { node { id url altText width height } } }
  variants(first: 100) {
    edges {
      node {
        id
        title
        price { amount currencyCode }
        compareAtPrice { amount currencyCode }
        availableForSale
        quantityAvailable
        selectedOptions { name value }
        image { id url altText width height }
      }
    }
  }
  priceRange {
    minVariantPrice { amount currencyCode }
    maxVariantPrice { amount currencyCode }
  }
`

const cartFields = `
  id
  createdAt
  updatedAt
  checkoutUrl
  totalQuantity
  lines(first: 100) {
    edges {
      node {
        id
        quantity
        merchandise {
          ... on ProductVariant {
            id
            title
            price { amount currencyCode }
            product {
              id
              title
              handle
              images(first: 1) { edges { node { id url altText width height } } }
            }
          }
        }
        cost {
          totalAmount { amount currencyCode }
          subtotalAmount { amount currencyCode }
        }
      }
    }
  }
  cost {
    totalAmount { amount currencyCode }
    subtotalAmount { amount currencyCode }
    totalTaxAmount { amount currencyCode }
    totalDutyAmount { amount currencyCode }
  }
`

const productsQuery = `
query Products($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    edges { cursor node {` + productFields + `} }
    pageInfo { hasNextPage hasPreviousPage startCursor endCursor }
  }
}`

const searchProductsQuery = `
query SearchProducts($query: String!, $first: Int!) {
  products(first: $first, query: $query) {
    edges { cursor node {` + productFields + `} }
    pageInfo { hasNextPage hasPreviousPage startCursor endCursor }
  }
}`

const productByHandleQuery = `
query ProductByHandle($handle: String!) {
  productByHandle(handle: $handle) {` + productFields + `}
}`

const getCartQuery = `
query GetCart($cartId: ID!) {
  cart(id: $cartId) {` + cartFields + `}
}`

const createCartMutation = `
mutation CartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart {` + cartFields + `}
    userErrors { field message }
  }
}`

const addLinesMutation = `
mutation CartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {` + cartFields + `}
    userErrors { field message }
  }
}`

const updateLinesMutation = `
mutation CartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {` + cartFields + `}
    userErrors { field message }
  }
}`

const removeLinesMutation = `
mutation CartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {` + cartFields + `}
    userErrors { field message }
  }
}`
