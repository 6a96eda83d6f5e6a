package sqlinline

const QPing = `--sql cda55b5d-32d8-462d-90eb-ead2e4a89063
select 1;
`
