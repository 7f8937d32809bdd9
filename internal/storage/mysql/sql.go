package mysql

const hotelColumns = `
  h.id, h.user_id, h.name, h.city, h.country, h.description, h.type,
  h.adult_count, h.child_count, h.price_per_night, h.star_rating,
  h.facilities, h.image_urls, h.last_updated`

const insertHotelSQL = `
INSERT INTO hotels
  (id, user_id, name, city, country, description, type,
   adult_count, child_count, price_per_night, star_rating,
   facilities, image_urls, last_updated)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Owner match is part of the WHERE clause, so a foreign hotel is never touched.
const updateHotelSQL = `
UPDATE hotels SET
  name            = ?,
  city            = ?,
  country         = ?,
  description     = ?,
  type            = ?,
  adult_count     = ?,
  child_count     = ?,
  price_per_night = ?,
  star_rating     = ?,
  facilities      = ?,
  image_urls      = ?,
  last_updated    = ?
WHERE id = ? AND user_id = ?
`

// The SELECT only yields a row while the hotel exists, and the unique key on
// payment_intent_id rejects a second booking for one reservation. Both checks
// and the write happen in this single statement.
const appendBookingSQL = `
INSERT INTO bookings
  (id, hotel_id, user_id, payment_intent_id, first_name, last_name, email,
   adult_count, child_count, check_in, check_out, total_cost, created_at)
SELECT ?, h.id, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
FROM hotels h
WHERE h.id = ?
`

const bookingColumns = `
  b.id, b.hotel_id, b.user_id, b.payment_intent_id, b.first_name, b.last_name, b.email,
  b.adult_count, b.child_count, b.check_in, b.check_out, b.total_cost, b.created_at`

const getHotelSQL = `SELECT` + hotelColumns + `
FROM hotels h
WHERE h.id = ?
`

const getOwnedHotelSQL = `SELECT` + hotelColumns + `
FROM hotels h
WHERE h.id = ? AND h.user_id = ?
`

const listByOwnerSQL = `SELECT` + hotelColumns + `
FROM hotels h
WHERE h.user_id = ?
ORDER BY h.seq
`

const listAllSQL = `SELECT` + hotelColumns + `
FROM hotels h
ORDER BY h.last_updated DESC, h.seq DESC
`

const listBookedBySQL = `SELECT` + hotelColumns + `
FROM hotels h
WHERE EXISTS (SELECT 1 FROM bookings b WHERE b.hotel_id = h.id AND b.user_id = ?)
ORDER BY h.seq
`

const insertUserSQL = `
INSERT INTO users (id, email, password_hash, first_name, last_name)
VALUES (?, ?, ?, ?, ?)
`

const getUserByEmailSQL = `
SELECT id, email, password_hash, first_name, last_name
FROM users
WHERE email = ?
`

const getUserByIDSQL = `
SELECT id, email, password_hash, first_name, last_name
FROM users
WHERE id = ?
`
